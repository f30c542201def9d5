package gitutil

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ValidatePathspec rejects paths that are empty, absolute or escape the work tree.
// Callers pass the path after "--", so a leading dash is an ordinary file name.
func ValidatePathspec(path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return errors.Newf("path must be relative to the repository root: %s", path)
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Newf("path escapes the repository root: %s", path)
	}
	return nil
}
