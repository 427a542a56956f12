package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTemperature    = "llm.temperature"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyStoreKind         = "vector_store.kind"
	keyStoreURL          = "vector_store.url"
	keyStoreCollection   = "vector_store.collection"
	keyStoreDataDir      = "vector_store.data_dir"
	keyStoreAPIKey       = "vector_store.api_key"
	keyStoreTenant       = "vector_store.tenant"
	keyStoreDatabase     = "vector_store.database"
	keyIndexEnabled      = "indexing.enabled"
	keyIndexBatchSize    = "indexing.batch_size"
	keyIndexRequestsRate = "indexing.requests_per_second"
	keySearchLimit       = "search.limit"
	keySearchMinScore    = "search.min_score"
	keyOutputDir         = "output.dir"
)

// Environment variables that fill settings left empty in the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvChromaURL    = "CHROMA_SERVER_URL"
	EnvQdrantURL    = "QDRANT_URL"
	EnvQdrantKey    = "QDRANT_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

const defaultOllamaURL = "http://localhost:11434"

type configValue struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	validate    *validator.Validate
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// aiValidator may be nil, in which case connectivity checks are skipped.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		validate:    validator.New(),
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(fn func(string) string) {
	if fn == nil {
		fn = os.Getenv
	}
	s.getenv = fn
}

// Get retrieves current application settings. Values missing from the config
// store fall back to defaults, then to environment variables for API keys and
// server URLs.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider),
			Model:       s.configStore.GetString(keyLLMModel),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		VectorStore: domain.VectorStoreSettings{
			Kind:       s.getStoreKind(defaults.VectorStore.Kind),
			URL:        s.configStore.GetString(keyStoreURL),
			Collection: s.getString(keyStoreCollection, defaults.VectorStore.Collection),
			DataDir:    s.configStore.GetString(keyStoreDataDir),
			APIKey:     s.configStore.GetString(keyStoreAPIKey),
			Tenant:     s.getString(keyStoreTenant, defaults.VectorStore.Tenant),
			Database:   s.getString(keyStoreDatabase, defaults.VectorStore.Database),
		},
		Indexing: domain.IndexingSettings{
			Enabled:           s.getBool(keyIndexEnabled, defaults.Indexing.Enabled),
			BatchSize:         s.getInt(keyIndexBatchSize, defaults.Indexing.BatchSize),
			RequestsPerSecond: s.getFloat(keyIndexRequestsRate, defaults.Indexing.RequestsPerSecond),
		},
		Search: domain.SearchSettings{
			Limit:    s.getInt(keySearchLimit, defaults.Search.Limit),
			MinScore: s.getFloat(keySearchMinScore, defaults.Search.MinScore),
		},
		Output: domain.OutputSettings{
			Dir: s.configStore.GetString(keyOutputDir),
		},
	}

	s.applyEnv(settings)

	if settings.LLM.Provider != "" && settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.Embedding.Provider != "" && settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}

	return settings, nil
}

// applyEnv fills empty credentials and server URLs from the environment.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.apiKeyFor(settings.LLM.Provider)
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.apiKeyFor(settings.Embedding.Provider)
	}

	if host := s.getenv(EnvOllamaHost); host != "" {
		if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = host
		}
		if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = host
		}
	}

	if settings.VectorStore.APIKey == "" && settings.VectorStore.Kind == domain.VectorStoreQdrant {
		settings.VectorStore.APIKey = s.getenv(EnvQdrantKey)
	}
	if settings.VectorStore.URL == "" {
		switch settings.VectorStore.Kind {
		case domain.VectorStoreChroma:
			settings.VectorStore.URL = firstNonEmpty(s.getenv(EnvChromaURL), domain.DefaultChromaURL)
		case domain.VectorStoreQdrant:
			settings.VectorStore.URL = firstNonEmpty(s.getenv(EnvQdrantURL), domain.DefaultQdrantURL)
		}
	}
}

func (s *SettingsService) apiKeyFor(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicKey)
	case domain.AIProviderGoogle:
		return firstNonEmpty(s.getenv(EnvGoogleKey), s.getenv(EnvGeminiKey))
	}
	return ""
}

// Save validates and persists application settings.
// API keys are written only when set and not supplied by the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}
	if err := s.check(settings); err != nil {
		return err
	}

	values := []configValue{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyStoreKind, settings.VectorStore.Kind.String()},
		{keyStoreURL, settings.VectorStore.URL},
		{keyStoreCollection, settings.VectorStore.Collection},
		{keyStoreDataDir, settings.VectorStore.DataDir},
		{keyStoreTenant, settings.VectorStore.Tenant},
		{keyStoreDatabase, settings.VectorStore.Database},
		{keyIndexEnabled, settings.Indexing.Enabled},
		{keyIndexBatchSize, settings.Indexing.BatchSize},
		{keyIndexRequestsRate, settings.Indexing.RequestsPerSecond},
		{keySearchLimit, settings.Search.Limit},
		{keySearchMinScore, settings.Search.MinScore},
		{keyOutputDir, settings.Output.Dir},
	}
	if key := settings.LLM.APIKey; key != "" && key != s.apiKeyFor(settings.LLM.Provider) {
		values = append(values, configValue{keyLLMAPIKey, settings.LLM.APIKey})
	}
	if key := settings.Embedding.APIKey; key != "" && key != s.apiKeyFor(settings.Embedding.Provider) {
		values = append(values, configValue{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if key := settings.VectorStore.APIKey; key != "" && key != s.getenv(EnvQdrantKey) {
		values = append(values, configValue{keyStoreAPIKey, key})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" && settings.LLM.Provider == provider {
		apiKey = settings.LLM.APIKey
	}
	if apiKey == "" {
		apiKey = s.apiKeyFor(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.Model = model
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL, s.getenv(EnvOllamaHost))
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" && settings.Embedding.Provider == provider {
		apiKey = settings.Embedding.APIKey
	}
	if apiKey == "" {
		apiKey = s.apiKeyFor(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	resolved, known := domain.ResolveEmbeddingModel(provider, model)
	if model != "" && !known {
		return fmt.Errorf("unknown embedding model %q for %s", model, provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = resolved.Name
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL, s.getenv(EnvOllamaHost))
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorStore configures the vector store backend.
// An empty url keeps the default for remote stores.
func (s *SettingsService) SetVectorStore(kind domain.VectorStoreKind, url string) error {
	if !kind.IsValid() {
		return fmt.Errorf("invalid vector store: %s", kind)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.VectorStore.Kind = kind
	switch {
	case !kind.IsRemote():
		settings.VectorStore.URL = ""
	case url != "":
		settings.VectorStore.URL = url
	case kind == domain.VectorStoreQdrant:
		settings.VectorStore.URL = domain.DefaultQdrantURL
	default:
		settings.VectorStore.URL = domain.DefaultChromaURL
	}

	return s.Save(settings)
}

// Validate checks the current settings against their constraints.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.check(settings)
}

func (s *SettingsService) check(settings *domain.AppSettings) error {
	if err := s.validate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)",
				domain.ErrInvalidInput, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if settings.Embedding.Provider != "" && !settings.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: provider %s does not support embeddings",
			domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getProvider returns the stored provider, or "" when unset or unknown.
func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return ""
	}
	return provider
}

func (s *SettingsService) getStoreKind(defaultVal domain.VectorStoreKind) domain.VectorStoreKind {
	kind := domain.VectorStoreKind(s.configStore.GetString(keyStoreKind))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

// baseURLFor keeps a configured Ollama URL, falls back to OLLAMA_HOST and
// then the default port. Cloud providers use their SDK default.
func baseURLFor(provider domain.AIProvider, current, ollamaHost string) string {
	if !provider.IsLocal() {
		return ""
	}
	return firstNonEmpty(current, ollamaHost, defaultOllamaURL)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
