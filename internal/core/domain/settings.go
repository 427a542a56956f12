package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGoogle is the Google Gemini API.
	AIProviderGoogle AIProvider = "google"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGoogle:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGoogle
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// SupportsEmbeddings returns true if the provider exposes an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGoogle
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGoogle:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// VectorStoreKind selects the vector store backend.
type VectorStoreKind string

// Available vector stores.
const (
	// VectorStoreChroma is a Chroma server reached over REST.
	VectorStoreChroma VectorStoreKind = "chroma"

	// VectorStoreQdrant is a Qdrant server reached over REST.
	VectorStoreQdrant VectorStoreKind = "qdrant"

	// VectorStoreSQLite is a local SQLite file.
	VectorStoreSQLite VectorStoreKind = "sqlite"

	// VectorStoreMemory is a process-local store that is lost on exit.
	VectorStoreMemory VectorStoreKind = "memory"
)

// IsValid returns true if the store kind is recognised.
func (k VectorStoreKind) IsValid() bool {
	switch k {
	case VectorStoreChroma, VectorStoreQdrant, VectorStoreSQLite, VectorStoreMemory:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the store is reached over the network.
func (k VectorStoreKind) IsRemote() bool {
	return k == VectorStoreChroma || k == VectorStoreQdrant
}

// String returns the string representation.
func (k VectorStoreKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the store.
func (k VectorStoreKind) Description() string {
	switch k {
	case VectorStoreChroma:
		return "Chroma (server)"
	case VectorStoreQdrant:
		return "Qdrant (server)"
	case VectorStoreSQLite:
		return "SQLite (local file)"
	case VectorStoreMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"omitempty,oneof=ollama openai google"`

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI/Google).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `validate:"omitempty,oneof=ollama openai anthropic google"`

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI/Anthropic/Google).
	APIKey string

	// Temperature is the default sampling temperature.
	Temperature float64 `validate:"gte=0,lte=2"`

	// MaxTokens is the default completion length.
	MaxTokens int `validate:"gte=0"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Kind selects the backend.
	Kind VectorStoreKind `validate:"required,oneof=chroma qdrant sqlite memory"`

	// URL is the server address for remote stores.
	URL string `validate:"omitempty,url"`

	// Collection is the collection (or table) holding endpoint documents.
	Collection string `validate:"required"`

	// DataDir is where the SQLite store keeps its file. Empty uses ~/.arielle/data.
	DataDir string

	// APIKey authenticates against Qdrant Cloud. Unused by other stores.
	APIKey string

	// Tenant and Database scope Chroma collections. Unused by other stores.
	Tenant   string
	Database string
}

// IndexingSettings holds vector indexing configuration.
type IndexingSettings struct {
	// Enabled indicates whether `start` indexes documents by default.
	Enabled bool

	// BatchSize bounds concurrent embedding requests.
	BatchSize int `validate:"gte=1,lte=100"`

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64 `validate:"gte=0"`
}

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// Limit is the number of endpoints retrieved per query.
	Limit int `validate:"gte=1,lte=50"`

	// MinScore drops search hits below this similarity.
	MinScore float64 `validate:"gte=0,lte=1"`
}

// OutputSettings holds extraction output configuration.
type OutputSettings struct {
	// Dir is the directory under which phase2-output/ is created.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// VectorStore holds vector store settings.
	VectorStore VectorStoreSettings

	// Indexing holds indexing settings.
	Indexing IndexingSettings

	// Search holds retrieval settings.
	Search SearchSettings

	// Output holds extraction output settings.
	Output OutputSettings
}

// Defaults shared by settings and services.
const (
	DefaultCollection        = "openapi_endpoints"
	DefaultChromaURL         = "http://localhost:8000"
	DefaultQdrantURL         = "http://localhost:6333"
	DefaultChromaTenant      = "default_tenant"
	DefaultChromaDatabase    = "default_database"
	DefaultBatchSize         = 10
	DefaultSearchLimit       = 5
	DefaultMinScore          = 0.4
	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 1000
	DefaultRequestsPerSecond = 0
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them with `arielle settings`
// or through environment variables.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Embedding: EmbeddingSettings{},
		VectorStore: VectorStoreSettings{
			Kind:       VectorStoreChroma,
			URL:        DefaultChromaURL,
			Collection: DefaultCollection,
			Tenant:     DefaultChromaTenant,
			Database:   DefaultChromaDatabase,
		},
		Indexing: IndexingSettings{
			Enabled:           true,
			BatchSize:         DefaultBatchSize,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Search: SearchSettings{
			Limit:    DefaultSearchLimit,
			MinScore: DefaultMinScore,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderGoogle,
		AIProviderOllama,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderGoogle,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// AllVectorStores returns all vector store kinds.
func AllVectorStores() []VectorStoreKind {
	return []VectorStoreKind{
		VectorStoreChroma,
		VectorStoreQdrant,
		VectorStoreSQLite,
		VectorStoreMemory,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGoogle:    "gemini-1.5-flash-latest",
	}
}
