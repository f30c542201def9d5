package git

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/gitutil"
	"go.uber.org/zap"
)

var changeQueries = []struct {
	name string
	args []string
}{
	{"modified", []string{"diff", "--name-only", "-z"}},
	{"untracked", []string{"ls-files", "--others", "--exclude-standard", "-z"}},
	{"deleted", []string{"diff", "--name-only", "--diff-filter=D", "-z"}},
}

// DetectChanges lists modified, untracked and deleted paths in the working tree.
// Listings are NUL-separated so names with quotes, tabs or newlines arrive verbatim.
// The three listings succeed or fail together: on any error the returned ChangeSet
// has every category empty.
func (c *Client) DetectChanges(ctx context.Context) (ChangeSet, error) {
	info, err := os.Stat(c.dir)
	if err != nil || !info.IsDir() {
		return emptyChangeSet(), errors.Wrapf(ErrInvalidRepoPath, "%s", c.dir)
	}

	listings := make([][]string, len(changeQueries))
	for i, q := range changeQueries {
		result, err := c.run(ctx, q.args...)
		if err != nil {
			return emptyChangeSet(), errors.Mark(
				gitutil.WrapGitError("list "+q.name+" files", result, err), ErrQueryFailed)
		}
		listings[i] = result.NulFields()
	}

	changes := ChangeSet{Modified: listings[0], Untracked: listings[1], Deleted: listings[2]}
	c.logger.Debug("changes detected",
		zap.String("dir", c.dir),
		zap.Int("modified", len(changes.Modified)),
		zap.Int("untracked", len(changes.Untracked)),
		zap.Int("deleted", len(changes.Deleted)))
	return changes, nil
}
