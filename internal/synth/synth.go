// Package synth turns a file's diff into a structured commit message using a
// remote completion service.
package synth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/llm"
	"go.uber.org/zap"
)

var (
	ErrNoDiff  = errors.New("no diff available")
	ErrPayload = errors.New("completion text is not a commit JSON object")
)

// CommitMessage is the structured result requested from the model. Lengths are
// requested in the prompt but not enforced.
type CommitMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type commitEnvelope struct {
	Commit *CommitMessage `json:"commit"`
}

// DiffProvider returns the unstaged diff for one path.
type DiffProvider interface {
	Diff(ctx context.Context, path string) (string, error)
}

type Options struct {
	Model  string
	Logger *zap.Logger
}

type Synthesizer struct {
	diffs  DiffProvider
	llm    llm.Completer
	model  string
	logger *zap.Logger
}

func New(diffs DiffProvider, completer llm.Completer, opts Options) *Synthesizer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{diffs: diffs, llm: completer, model: opts.Model, logger: logger}
}

// Synthesize requests a commit message for path. It makes at most one completion
// call and never retries. A path whose diff is empty fails with ErrNoDiff without
// contacting the service.
func (s *Synthesizer) Synthesize(ctx context.Context, path string) (*CommitMessage, error) {
	diff, err := s.diffs.Diff(ctx, path)
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(ErrNoDiff, "%s", path), err)
	}
	if strings.TrimSpace(diff) == "" {
		return nil, errors.Wrapf(ErrNoDiff, "%s", path)
	}

	text, err := s.llm.Complete(ctx, llm.Request{
		Prompt:   BuildPrompt(diff),
		Model:    s.model,
		Filename: path,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "synthesize commit message for %s", path)
	}

	msg, err := ParseCommitMessage(text)
	if err != nil {
		s.logger.Warn("unusable completion text", zap.String("path", path), zap.String("text", text))
		return nil, errors.Wrapf(err, "synthesize commit message for %s", path)
	}

	s.logger.Debug("commit message synthesized", zap.String("path", path), zap.String("title", msg.Title))
	return msg, nil
}

// ParseCommitMessage decodes {"commit": {"title": ..., "body": ...}} from completion
// text. Anything else, including a missing commit object or an empty title, is ErrPayload.
func ParseCommitMessage(text string) (*CommitMessage, error) {
	var envelope commitEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &envelope); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode commit JSON"), ErrPayload)
	}
	if envelope.Commit == nil {
		return nil, errors.Mark(errors.New(`missing "commit" object`), ErrPayload)
	}
	if strings.TrimSpace(envelope.Commit.Title) == "" {
		return nil, errors.Mark(errors.New("commit title is empty"), ErrPayload)
	}
	return envelope.Commit, nil
}
