package git

import (
	"context"

	"github.com/samzong/lmc/internal/gitutil"
	"go.uber.org/zap"
)

// StageFile adds exactly one path to the index.
func (c *Client) StageFile(ctx context.Context, path string) error {
	if err := gitutil.ValidatePathspec(path); err != nil {
		return err
	}
	result, err := c.run(ctx, "add", "--", path)
	if err != nil {
		return gitutil.WrapGitError("git add "+path, result, err)
	}
	return nil
}

// Commit records a commit with title as the headline and body as the extended
// message. When paths is non-empty only those paths are committed, leaving any
// other staged changes in the index. Extra args are passed to git commit before
// the messages.
func (c *Client) Commit(ctx context.Context, title, body string, paths []string, args ...string) error {
	for _, path := range paths {
		if err := gitutil.ValidatePathspec(path); err != nil {
			return err
		}
	}

	commitArgs := append([]string{"commit"}, args...)
	commitArgs = append(commitArgs, "-m", title)
	if body != "" {
		commitArgs = append(commitArgs, "-m", body)
	}
	if len(paths) > 0 {
		commitArgs = append(commitArgs, "--")
		commitArgs = append(commitArgs, paths...)
	}

	result, err := c.run(ctx, commitArgs...)
	if err != nil {
		return gitutil.WrapGitError("git commit", result, err)
	}
	c.logger.Debug("commit created", zap.String("title", title))
	return nil
}
