package driven

import "context"

// LLMService is the completion capability of a language model backend.
// This is an optional service - when nil, question answering is disabled.
//
// Implementations:
//   - OpenAI (openai-go)
//   - Anthropic (anthropic-sdk-go)
//   - Google Gemini (genai)
//   - Ollama (local HTTP API)
type LLMService interface {
	// Complete produces text for a single prompt.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	// A leading "system" message is sent as the system prompt where the backend supports one.
	Chat(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)

	// ProviderName returns the backend name, e.g. "openai".
	ProviderName() string

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// IsConfigured reports whether the service has what it needs to make calls.
	IsConfigured() bool

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures text generation behaviour.
// Zero values mean "use the service default".
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// SystemPrompt is prepended as a system instruction for Complete.
	SystemPrompt string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
