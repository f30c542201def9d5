package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/content"
	"github.com/samzong/lmc/internal/git"
	"github.com/samzong/lmc/internal/synth"
	"github.com/samzong/lmc/internal/ui"
	"go.uber.org/zap"
)

var (
	ErrNoChanges    = errors.New("no changes detected")
	ErrNoValidFiles = errors.New("no valid files to process")
)

// Outcome records what happened to one file during a run.
type Outcome int

const (
	// OutcomeSkipped means no commit message could be synthesized.
	OutcomeSkipped Outcome = iota
	// OutcomeSynthesized means a message was produced and nothing else was attempted.
	OutcomeSynthesized
	OutcomeCommitted
	OutcomeRejected
	OutcomeCommitFailed
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSynthesized:
		return "synthesized"
	case OutcomeCommitted:
		return "committed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCommitFailed:
		return "commit failed"
	case OutcomeDryRun:
		return "dry run"
	default:
		return "unknown"
	}
}

// FileResult is the entry for one submitted file. Message is nil when synthesis failed.
type FileResult struct {
	Path    string
	Message *synth.CommitMessage
	Outcome Outcome
	Err     error
}

// Result holds one entry per submitted file, in submission order.
type Result []FileResult

// Messages returns the synthesized messages in order, nil marking a failed file.
func (r Result) Messages() []*synth.CommitMessage {
	out := make([]*synth.CommitMessage, len(r))
	for i, fr := range r {
		out[i] = fr.Message
	}
	return out
}

// Count returns how many entries have the given outcome.
func (r Result) Count(o Outcome) int {
	n := 0
	for _, fr := range r {
		if fr.Outcome == o {
			n++
		}
	}
	return n
}

type Options struct {
	// Root is the repository root; changed paths are resolved against it.
	Root      string
	DryRun    bool
	NoVerify  bool
	OutWriter io.Writer
	ErrWriter io.Writer
	Logger    *zap.Logger
}

// Pipeline wires change detection, content loading, synthesis and the optional
// commit step. Files are handled strictly one after another.
type Pipeline struct {
	git      GitClient
	synth    Synthesizer
	opts     Options
	prompter Prompter
	logger   *zap.Logger
}

func NewPipeline(gitClient GitClient, synthesizer Synthesizer, opts Options) *Pipeline {
	if opts.OutWriter == nil {
		opts.OutWriter = io.Discard
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		git:      gitClient,
		synth:    synthesizer,
		opts:     opts,
		prompter: &InteractivePrompter{ErrWriter: opts.ErrWriter},
		logger:   logger,
	}
}

func (p *Pipeline) SetPrompter(prompter Prompter) {
	p.prompter = prompter
}

// SelectFiles detects changes and loads modified and untracked files. Deleted and
// unreadable files are left out. A failed detection is treated as no changes.
func (p *Pipeline) SelectFiles(ctx context.Context) ([]content.ProcessedFile, error) {
	changes, err := p.git.DetectChanges(ctx)
	if err != nil {
		if errors.Is(err, git.ErrInvalidRepoPath) {
			return nil, err
		}
		p.logger.Warn("error while fetching git changes", zap.Error(err))
		fmt.Fprintf(p.opts.ErrWriter, "Error while fetching git changes: %v\n", err)
	}

	candidates := changes.Candidates()
	if len(candidates) == 0 {
		return nil, ErrNoChanges
	}

	files := content.ProcessFiles(p.opts.Root, candidates, p.logger)
	if len(files) == 0 {
		return nil, ErrNoValidFiles
	}
	return files, nil
}

// RunBatch synthesizes a message for every selected file without committing.
func (p *Pipeline) RunBatch(ctx context.Context) (Result, error) {
	fmt.Fprintln(p.opts.ErrWriter, "Fetching Git changes...")
	files, err := p.SelectFiles(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.opts.ErrWriter, "Requesting commit messages for %d file(s)...\n", len(files))
	result := make(Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		msg, err := p.synthesize(ctx, file.Path)
		entry := FileResult{Path: file.Path, Message: msg, Outcome: OutcomeSynthesized, Err: err}
		if msg == nil {
			entry.Outcome = OutcomeSkipped
			fmt.Fprintf(p.opts.ErrWriter, "Skipping file: %s\n", file.Path)
		}
		result = append(result, entry)
	}
	return result, nil
}

// RunInteractive asks for confirmation of each synthesized message and commits
// accepted files one at a time. Failures to stage or commit a file are reported
// and the run moves on.
func (p *Pipeline) RunInteractive(ctx context.Context) (Result, error) {
	files, err := p.SelectFiles(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.prompter.Ready(); err != nil {
		return nil, err
	}

	result := make(Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprintf(p.opts.ErrWriter, "\nProcessing file: %s\n", file.Path)
		msg, err := p.synthesize(ctx, file.Path)
		if msg == nil {
			fmt.Fprintf(p.opts.ErrWriter, "Skipping file: %s\n", file.Path)
			result = append(result, FileResult{Path: file.Path, Outcome: OutcomeSkipped, Err: err})
			continue
		}

		fmt.Fprintln(p.opts.ErrWriter, "\nSuggested Commit Message:")
		fmt.Fprintf(p.opts.OutWriter, "Title: %s\n", msg.Title)
		fmt.Fprintf(p.opts.OutWriter, "Body:\n%s\n", msg.Body)

		accepted, err := p.prompter.Confirm(file.Path, msg)
		if err != nil {
			return result, err
		}

		entry := FileResult{Path: file.Path, Message: msg}
		if !accepted {
			fmt.Fprintf(p.opts.ErrWriter, "Commit skipped for: %s\n", file.Path)
			entry.Outcome = OutcomeRejected
		} else {
			entry.Outcome, entry.Err = p.apply(ctx, file.Path, msg)
		}
		result = append(result, entry)
	}
	return result, nil
}

func (p *Pipeline) synthesize(ctx context.Context, path string) (*synth.CommitMessage, error) {
	sp := ui.NewSpinner("Generating commit message for " + path + "...")
	sp.Start()
	msg, err := p.synth.Synthesize(ctx, path)
	sp.Stop()

	if err != nil {
		p.logger.Warn("commit message unavailable", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

func (p *Pipeline) apply(ctx context.Context, path string, msg *synth.CommitMessage) (Outcome, error) {
	if p.opts.DryRun {
		fmt.Fprintf(p.opts.ErrWriter, "Dry run mode, would commit: %s\n", path)
		return OutcomeDryRun, nil
	}

	if err := p.git.StageFile(ctx, path); err != nil {
		fmt.Fprintf(p.opts.ErrWriter, "Error during Git commit for %s: %v\n", path, err)
		return OutcomeCommitFailed, err
	}

	var args []string
	if p.opts.NoVerify {
		args = append(args, "--no-verify")
	}
	if err := p.git.Commit(ctx, msg.Title, msg.Body, []string{path}, args...); err != nil {
		fmt.Fprintf(p.opts.ErrWriter, "Error during Git commit for %s: %v\n", path, err)
		return OutcomeCommitFailed, err
	}

	fmt.Fprintf(p.opts.ErrWriter, "Successfully committed: %s\n", path)
	return OutcomeCommitted, nil
}
