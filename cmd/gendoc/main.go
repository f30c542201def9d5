//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/samzong/lmc/cmd"
	"github.com/spf13/cobra/doc"
)

func main() {
	dir := "./docs/man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	header := &doc.GenManHeader{
		Title:   "LMC",
		Section: "1",
		Source:  "lmc",
		Manual:  "LMC Manual",
	}

	rootCmd := cmd.RootCmd()
	rootCmd.DisableAutoGenTag = true
	if err := doc.GenManTree(rootCmd, header, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
	if err := doc.GenMarkdownTree(rootCmd, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating markdown docs: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Documentation generated in %s\n", dir)
}
