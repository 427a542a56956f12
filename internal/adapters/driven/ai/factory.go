// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	googleembed "github.com/custodia-labs/arielle-cli/internal/adapters/driven/embedding/google"
	ollamaembed "github.com/custodia-labs/arielle-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/arielle-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/arielle-cli/internal/adapters/driven/llm/anthropic"
	googlellm "github.com/custodia-labs/arielle-cli/internal/adapters/driven/llm/google"
	ollamallm "github.com/custodia-labs/arielle-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/arielle-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that left a service disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates both services from settings. A service whose provider is not
// configured, or that cannot be reached, is left nil and reported in Warnings.
func Init(ctx context.Context, settings *domain.AppSettings, log *logger.Logger) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	emb, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding, log)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.EmbeddingService = emb

	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.LLMService = llm

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
	log *logger.Logger,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(ctx, settings, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'arielle settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'arielle settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'arielle settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'arielle settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateEmbeddingService(ctx, settings, nil)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service for settings.Provider.
// Returns nil if the provider is not configured.
// An unknown model is reported through log and replaced by the provider default.
func CreateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
	log *logger.Logger,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	if !settings.Provider.SupportsEmbeddings() {
		return nil, fmt.Errorf("%s does not support embeddings, use openai, google or ollama", settings.Provider)
	}

	model, known := domain.ResolveEmbeddingModel(settings.Provider, settings.Model)
	if !known {
		log.Warn("Unknown embedding model %q, falling back to %s", settings.Model, model.Name)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      model.Name,
			Dimensions: model.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return embeddingResult(openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      model.Name,
			Dimensions: model.Dimensions,
		}))

	case domain.AIProviderGoogle:
		return embeddingResult(googleembed.NewEmbeddingService(ctx, googleembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      model.Name,
			Dimensions: model.Dimensions,
		}))

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for settings.Provider.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[settings.Provider]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   model,
		}), nil

	case domain.AIProviderOpenAI:
		return llmResult(openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		}))

	case domain.AIProviderAnthropic:
		return llmResult(anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		}))

	case domain.AIProviderGoogle:
		return llmResult(googlellm.NewLLMService(ctx, googlellm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		}))

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// embeddingResult turns a failed constructor's typed nil into a nil interface.
func embeddingResult(svc driven.EmbeddingService, err error) (driven.EmbeddingService, error) {
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// llmResult turns a failed constructor's typed nil into a nil interface.
func llmResult(svc driven.LLMService, err error) (driven.LLMService, error) {
	if err != nil {
		return nil, err
	}
	return svc, nil
}
