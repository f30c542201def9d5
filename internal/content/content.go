// Package content loads working tree files in a form safe to carry as text.
package content

import (
	"encoding/base64"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrRead     = errors.New("file read failed")
)

// Kind tells how a Payload's Data was produced.
type Kind int

const (
	// Text holds the file's bytes verbatim; they were valid UTF-8.
	Text Kind = iota
	// Binary holds the standard base64 encoding of the file's bytes.
	Binary
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Payload is a file's content, either verbatim text or base64 of the raw bytes.
type Payload struct {
	Kind Kind
	Data string
}

// Bytes returns the original file bytes.
func (p Payload) Bytes() ([]byte, error) {
	if p.Kind == Binary {
		return base64.StdEncoding.DecodeString(p.Data)
	}
	return []byte(p.Data), nil
}

// ProcessedFile pairs a repository-relative path with its loaded content.
type ProcessedFile struct {
	Path    string
	Content Payload
}

// Classify picks the representation for raw bytes.
func Classify(data []byte) Payload {
	if utf8.Valid(data) {
		return Payload{Kind: Text, Data: string(data)}
	}
	return Payload{Kind: Binary, Data: base64.StdEncoding.EncodeToString(data)}
}

// Load reads one regular file. A missing path or a non-regular file reports
// ErrNotFound; other I/O failures report ErrRead.
func Load(path string) (Payload, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Payload{}, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return Payload{}, errors.Mark(errors.Wrapf(err, "stat %s", path), ErrRead)
	}
	if !info.Mode().IsRegular() {
		return Payload{}, errors.Wrapf(ErrNotFound, "%s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, errors.Mark(errors.Wrapf(err, "read %s", path), ErrRead)
	}
	return Classify(data), nil
}

// ProcessFiles loads each repository-relative path under root, in order. Files
// that cannot be loaded are logged and dropped.
func ProcessFiles(root string, paths []string, logger *zap.Logger) []ProcessedFile {
	if logger == nil {
		logger = zap.NewNop()
	}

	processed := make([]ProcessedFile, 0, len(paths))
	for _, path := range paths {
		payload, err := Load(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		processed = append(processed, ProcessedFile{Path: path, Content: payload})
	}
	return processed
}
