// Package google provides an LLM service adapter using the Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-1.5-flash-latest"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI Studio API key (required).
	APIKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// Model is the chat model to use (default: gemini-1.5-flash-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Gemini API.
type LLMService struct {
	client *genai.Client
	model  string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}
	return &LLMService{client: client, model: cfg.Model}, nil
}

// Complete produces text for a single prompt.
func (s *LLMService) Complete(ctx context.Context, prompt string, opts driven.CompletionOptions) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return s.generate(ctx, contents, opts.SystemPrompt, opts)
}

// Chat conducts a multi-turn conversation.
// System messages become the request's system instruction.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
		case driven.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return "", errors.New("google: at least one user or model message is required")
	}
	return s.generate(ctx, contents, strings.Join(system, "\n\n"), opts)
}

func (s *LLMService) generate(
	ctx context.Context,
	contents []*genai.Content,
	system string,
	opts driven.CompletionOptions,
) (string, error) {
	config := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("google generate: %w", err)
	}

	// Use the first candidate that carries text.
	var result strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				result.WriteString(part.Text)
			}
			if result.Len() > 0 {
				break
			}
		}
	}
	if result.Len() == 0 {
		return "", errors.New("google: no response generated")
	}
	return result.String(), nil
}

// ProviderName returns "google".
func (s *LLMService) ProviderName() string {
	return "google"
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// IsConfigured reports true; construction fails without an API key.
func (s *LLMService) IsConfigured() bool {
	return true
}

// Ping validates the API key by fetching the configured model.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("google: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
