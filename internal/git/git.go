// Package git queries and mutates a working tree through the git command line.
package git

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/gitcmd"
	"go.uber.org/zap"
)

var (
	ErrInvalidRepoPath = errors.New("invalid repository path")
	ErrQueryFailed     = errors.New("git change query failed")
	ErrDiffFailed      = errors.New("git diff failed")
)

// ChangeSet lists working tree paths by category, in the order git reports them.
type ChangeSet struct {
	Modified  []string
	Untracked []string
	Deleted   []string
}

func emptyChangeSet() ChangeSet {
	return ChangeSet{Modified: []string{}, Untracked: []string{}, Deleted: []string{}}
}

// IsEmpty reports whether no paths were found in any category.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Modified) == 0 && len(c.Untracked) == 0 && len(c.Deleted) == 0
}

// Candidates returns modified paths followed by untracked paths, each listed once.
// Paths reported as deleted are left out since there is nothing on disk to describe.
func (c ChangeSet) Candidates() []string {
	seen := make(map[string]struct{}, len(c.Deleted)+len(c.Modified)+len(c.Untracked))
	for _, path := range c.Deleted {
		seen[path] = struct{}{}
	}
	out := make([]string, 0, len(c.Modified)+len(c.Untracked))
	for _, group := range [][]string{c.Modified, c.Untracked} {
		for _, path := range group {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	return out
}

type Options struct {
	// Dir is the repository root every git command runs in.
	Dir    string
	Logger *zap.Logger
	// Executor overrides the subprocess runner, mainly for tests.
	Executor gitcmd.Executor
}

type Client struct {
	dir    string
	exec   gitcmd.Executor
	logger *zap.Logger
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exec := opts.Executor
	if exec == nil {
		exec = gitcmd.Runner{Dir: opts.Dir, Logger: logger}
	}
	return &Client{dir: opts.Dir, exec: exec, logger: logger}
}

func (c *Client) run(ctx context.Context, args ...string) (gitcmd.Result, error) {
	return c.exec.Run(ctx, append([]string{"-c", "core.quotepath=off"}, args...)...)
}
