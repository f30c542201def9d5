package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// completionPayload is the body accepted by the completions endpoint.
type completionPayload struct {
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
	Filename string `json:"filename"`
}

// CompletionsClient posts prompts to a text-completions endpoint such as
// LM Studio's /v1/completions.
type CompletionsClient struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

func NewCompletionsClient(opts Options) *CompletionsClient {
	return &CompletionsClient{
		endpoint: opts.Endpoint,
		token:    opts.Token,
		http:     opts.httpClient(),
		logger:   opts.logger(),
	}
}

// Complete sends one request. Any status other than 200 or 201 is a *StatusError.
func (c *CompletionsClient) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(completionPayload{Prompt: req.Prompt, Model: req.Model, Filename: req.Filename})
	if err != nil {
		return "", errors.Wrap(err, "encode completion request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build completion request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending completion request",
		zap.String("endpoint", c.endpoint),
		zap.String("model", req.Model),
		zap.String("filename", req.Filename))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "post completion request"), ErrTransport)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "read completion response"), ErrTransport)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("completion request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	return parseEnvelope(respBody)
}

// parseEnvelope extracts choices[0].text from a completions response body.
func parseEnvelope(body []byte) (string, error) {
	var envelope openai.CompletionResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode completion response"), ErrEnvelope)
	}
	if len(envelope.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(envelope.Choices[0].Text), nil
}
