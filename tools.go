//go:build tools

package tools

// cmd/gendoc is built with the ignore tag, so cobra/doc is pinned here.
import (
	_ "github.com/spf13/cobra/doc"
)
