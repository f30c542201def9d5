package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChatAPI is a scripted stand-in for the go-openai client.
type mockChatAPI struct {
	createChatCompletionFunc func(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	lastRequest              openai.ChatCompletionRequest
}

func (m *mockChatAPI) CreateChatCompletion(
	ctx context.Context,
	request openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	m.lastRequest = request
	return m.createChatCompletionFunc(ctx, request)
}

func TestChatClient_Complete(t *testing.T) {
	mock := &mockChatAPI{createChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "\n{\"commit\":{}}\n"}},
			},
		}, nil
	}}
	client := &ChatClient{api: mock, logger: Options{}.logger()}

	text, err := client.Complete(context.Background(), Request{Prompt: "diff prompt", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, `{"commit":{}}`, text)

	assert.Equal(t, "gpt-4o-mini", mock.lastRequest.Model)
	require.Len(t, mock.lastRequest.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, mock.lastRequest.Messages[0].Role)
	assert.Equal(t, "diff prompt", mock.lastRequest.Messages[1].Content)
}

func TestChatClient_NoChoices(t *testing.T) {
	mock := &mockChatAPI{createChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	}}
	client := &ChatClient{api: mock, logger: Options{}.logger()}

	_, err := client.Complete(context.Background(), Request{})
	assert.True(t, errors.Is(err, ErrNoChoices))
}

func TestChatClient_TransportError(t *testing.T) {
	mock := &mockChatAPI{createChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("connection refused")
	}}
	client := &ChatClient{api: mock, logger: Options{}.logger()}

	_, err := client.Complete(context.Background(), Request{})
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestChatClient_AgainstServer(t *testing.T) {
	var gotAuth string
	var gotBody openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"reply"}}]}`)
	}))
	defer srv.Close()

	client := NewChatClient(Options{Endpoint: srv.URL + "/v1", Token: "tok"})
	text, err := client.Complete(context.Background(), Request{Prompt: "p", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "reply", text)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "m", gotBody.Model)
}

func TestChatClient_StatusFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewChatClient(Options{Endpoint: srv.URL, Token: "tok"})
	_, err := client.Complete(context.Background(), Request{Model: "m"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}
