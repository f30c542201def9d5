// Package workflow runs the change-to-commit pipeline.
package workflow

import (
	"context"

	"github.com/samzong/lmc/internal/git"
	"github.com/samzong/lmc/internal/synth"
)

// GitClient abstracts git operations for testability.
type GitClient interface {
	DetectChanges(ctx context.Context) (git.ChangeSet, error)
	StageFile(ctx context.Context, path string) error
	Commit(ctx context.Context, title, body string, paths []string, args ...string) error
}

// Synthesizer produces a commit message for one repository-relative path.
type Synthesizer interface {
	Synthesize(ctx context.Context, path string) (*synth.CommitMessage, error)
}
