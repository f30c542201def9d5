package llm

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a Git commit message generator. Reply with the requested JSON object only."

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatClient talks to an OpenAI-compatible chat completions API. Endpoint is the
// API base URL, for example https://api.openai.com/v1.
type ChatClient struct {
	api    chatAPI
	logger *zap.Logger
}

func NewChatClient(opts Options) *ChatClient {
	clientConfig := openai.DefaultConfig(opts.Token)
	if opts.Endpoint != "" {
		clientConfig.BaseURL = opts.Endpoint
	}
	clientConfig.HTTPClient = opts.httpClient()

	return &ChatClient{
		api:    openai.NewClientWithConfig(clientConfig),
		logger: opts.logger(),
	}
}

func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	c.logger.Debug("sending chat completion request",
		zap.String("model", req.Model),
		zap.String("filename", req.Filename))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &StatusError{Code: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
		}
		return "", errors.Mark(errors.Wrap(err, "call chat completion"), ErrTransport)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
