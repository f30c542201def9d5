package gitutil

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RepoInfo describes the repository enclosing a directory.
type RepoInfo struct {
	Root   string
	Branch string
}

// Probe opens the repository containing dir (searching parents for .git) and reports
// its work tree root and current branch. Branch is empty for a detached or unborn HEAD.
func Probe(dir string) (RepoInfo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return RepoInfo{}, errors.Wrap(err, "resolve repository path")
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepoInfo{}, errors.Wrap(err, "open repository")
	}

	info := RepoInfo{Root: abs}
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}

	head, err := repo.Head()
	switch {
	case err == nil:
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch: nothing committed yet
	default:
		return RepoInfo{}, errors.Wrap(err, "resolve HEAD")
	}

	return info, nil
}
