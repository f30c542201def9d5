package git

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/gitutil"
)

// Diff returns the unstaged diff of one repository-relative path. A path without
// unstaged changes (including untracked files) yields an empty string and no error.
func (c *Client) Diff(ctx context.Context, path string) (string, error) {
	if err := gitutil.ValidatePathspec(path); err != nil {
		return "", errors.Mark(err, ErrDiffFailed)
	}

	result, err := c.run(ctx, "diff", "--no-color", "--no-ext-diff", "--", path)
	if err != nil {
		return "", errors.Mark(gitutil.WrapGitError("git diff "+path, result, err), ErrDiffFailed)
	}
	return result.StdoutString(false), nil
}
