package openai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

type capturedRequest struct {
	Model               string  `json:"model"`
	MaxCompletionTokens int     `json:"max_completion_tokens"`
	Temperature         float64 `json:"temperature"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, captured *capturedRequest, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` +
				mustQuote(reply) + `}}]}`))
		case "/models/gpt-4":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"gpt-4","object":"model","created":1,"owned_by":"openai"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"not found","type":"invalid_request_error"}}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestService(t *testing.T, url, model string) *LLMService {
	t.Helper()
	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: url, Model: model, MaxRetries: -1})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, "openai", svc.ProviderName())
	assert.True(t, svc.IsConfigured())
	assert.NoError(t, svc.Close())
}

func TestLLMService_Chat(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, &captured, "Use GET /pets")
	svc := newTestService(t, server.URL, "gpt-4")

	answer, err := svc.Chat(t.Context(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "context"},
		{Role: driven.RoleUser, Content: "earlier"},
		{Role: driven.RoleAssistant, Content: "reply"},
		{Role: driven.RoleUser, Content: "How do I list pets?"},
	}, driven.CompletionOptions{MaxTokens: 1000, Temperature: 0.7})
	require.NoError(t, err)

	assert.Equal(t, "Use GET /pets", answer)
	assert.Equal(t, "gpt-4", captured.Model)
	assert.Equal(t, 1000, captured.MaxCompletionTokens)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "How do I list pets?", captured.Messages[3].Content)
}

func TestLLMService_Complete_WithSystemPrompt(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, &captured, "true")
	svc := newTestService(t, server.URL, "gpt-4")

	answer, err := svc.Complete(t.Context(), "classify this", driven.CompletionOptions{SystemPrompt: "be brief"})
	require.NoError(t, err)

	assert.Equal(t, "true", answer)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "be brief", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Zero(t, captured.MaxCompletionTokens)
}

func TestLLMService_Errors(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, &captured, "")
	svc := newTestService(t, server.URL, "gpt-4")
	assert.NoError(t, svc.Ping(t.Context()))

	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer unauthorized.Close()

	rejected := newTestService(t, unauthorized.URL, "gpt-4")
	_, err := rejected.Chat(t.Context(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.CompletionOptions{})
	assert.ErrorContains(t, err, "openai chat")

	unknownModel := newTestService(t, server.URL, "gpt-unknown")
	assert.ErrorContains(t, unknownModel.Ping(t.Context()), "openai: ping failed")
}
