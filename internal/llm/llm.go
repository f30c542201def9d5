// Package llm sends prompts to a remote completion service.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	ErrStatus    = errors.New("unexpected HTTP status")
	ErrEnvelope  = errors.New("malformed completion response")
	ErrNoChoices = errors.New("no choices found in the response")
	ErrTransport = errors.New("completion request failed")
)

// StatusError reports a response whose status code is not accepted.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Request is one completion call. Filename identifies the file the prompt describes.
type Request struct {
	Prompt   string
	Model    string
	Filename string
}

// Completer returns the raw text of the first completion choice.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Options struct {
	// Provider selects the transport: "completions" or "openai".
	Provider string
	Endpoint string
	Token    string
	// Timeout bounds each HTTP call; zero means no limit.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.Timeout}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// NewClient returns the Completer for opts.Provider.
func NewClient(opts Options) (Completer, error) {
	switch opts.Provider {
	case "", "completions":
		return NewCompletionsClient(opts), nil
	case "openai":
		return NewChatClient(opts), nil
	default:
		return nil, errors.Newf("unknown provider %q", opts.Provider)
	}
}
