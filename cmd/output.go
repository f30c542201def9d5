package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samzong/lmc/internal/synth"
	"github.com/samzong/lmc/internal/workflow"
)

var (
	outWriterFunc = func() io.Writer { return os.Stdout }
	errWriterFunc = func() io.Writer { return os.Stderr }
)

func init() {
	outWriterFunc = func() io.Writer { return rootCmd.OutOrStdout() }
	errWriterFunc = func() io.Writer { return rootCmd.ErrOrStderr() }
}

func outWriter() io.Writer {
	return outWriterFunc()
}

func errWriter() io.Writer {
	return errWriterFunc()
}

type batchEntry struct {
	Path   string               `json:"path"`
	Commit *synth.CommitMessage `json:"commit"`
}

func printBatchResult(result workflow.Result) {
	out := outWriter()
	fmt.Fprintln(out, "Commit results:")
	for _, entry := range result {
		if entry.Message == nil {
			fmt.Fprintf(out, "\n%s: skipped\n", entry.Path)
			continue
		}
		fmt.Fprintf(out, "\n%s\n  Title: %s\n", entry.Path, entry.Message.Title)
		if entry.Message.Body != "" {
			fmt.Fprintf(out, "  Body:\n%s\n", indent(entry.Message.Body, "    "))
		}
	}
	fmt.Fprintf(errWriter(), "\n%d of %d file(s) got a commit message.\n",
		result.Count(workflow.OutcomeSynthesized), len(result))
}

func printBatchJSON(result workflow.Result) error {
	messages := result.Messages()
	entries := make([]batchEntry, len(result))
	for i, entry := range result {
		entries[i] = batchEntry{Path: entry.Path, Commit: messages[i]}
	}
	enc := json.NewEncoder(outWriter())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func printInteractiveSummary(result workflow.Result) {
	if len(result) == 0 {
		return
	}
	fmt.Fprintf(errWriter(), "\nDone: %d committed, %d rejected, %d skipped, %d failed",
		result.Count(workflow.OutcomeCommitted),
		result.Count(workflow.OutcomeRejected),
		result.Count(workflow.OutcomeSkipped),
		result.Count(workflow.OutcomeCommitFailed))
	if n := result.Count(workflow.OutcomeDryRun); n > 0 {
		fmt.Fprintf(errWriter(), ", %d dry run", n)
	}
	fmt.Fprintln(errWriter())
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
