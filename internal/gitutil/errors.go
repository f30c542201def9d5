package gitutil

import (
	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/gitcmd"
)

// WrapGitError builds an error message that prefers git stderr output when present.
func WrapGitError(action string, result gitcmd.Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg != "" {
		return errors.Wrapf(err, "%s: %s", action, errMsg)
	}
	return errors.Wrap(err, action)
}
