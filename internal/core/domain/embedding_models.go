package domain

// DefaultEmbeddingModel is used when no model, or an unknown model, is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// EmbeddingModel describes a known embedding model.
type EmbeddingModel struct {
	Name       string
	Provider   AIProvider
	Dimensions int
}

var embeddingModels = map[string]EmbeddingModel{
	// OpenAI models
	"text-embedding-3-small": {Name: "text-embedding-3-small", Provider: AIProviderOpenAI, Dimensions: 1536},
	"text-embedding-3-large": {Name: "text-embedding-3-large", Provider: AIProviderOpenAI, Dimensions: 3072},
	"text-embedding-ada-002": {Name: "text-embedding-ada-002", Provider: AIProviderOpenAI, Dimensions: 1536},
	// Google models
	"text-embedding-004": {Name: "text-embedding-004", Provider: AIProviderGoogle, Dimensions: 768},
	// Ollama models
	"nomic-embed-text":  {Name: "nomic-embed-text", Provider: AIProviderOllama, Dimensions: 768},
	"mxbai-embed-large": {Name: "mxbai-embed-large", Provider: AIProviderOllama, Dimensions: 1024},
	"all-minilm":        {Name: "all-minilm", Provider: AIProviderOllama, Dimensions: 384},
}

// LookupEmbeddingModel returns the model description for name.
func LookupEmbeddingModel(name string) (EmbeddingModel, bool) {
	m, ok := embeddingModels[name]
	return m, ok
}

// EmbeddingDimensions returns the vector size of a known model, or 0.
func EmbeddingDimensions(name string) int {
	return embeddingModels[name].Dimensions
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: DefaultEmbeddingModel,
		AIProviderGoogle: "text-embedding-004",
		AIProviderOllama: "nomic-embed-text",
	}
}

// ResolveEmbeddingModel picks the model to use for provider.
// An empty name selects the provider default. A name that is unknown, or
// that belongs to another provider, yields the provider default with
// known=false so the caller can warn or reject it.
func ResolveEmbeddingModel(provider AIProvider, name string) (model EmbeddingModel, known bool) {
	if name == "" {
		name = DefaultEmbeddingModels()[provider]
	}
	if name == "" {
		name = DefaultEmbeddingModel
	}
	if m, ok := embeddingModels[name]; ok && (provider == "" || m.Provider == provider) {
		return m, true
	}
	def := DefaultEmbeddingModels()[provider]
	if def == "" {
		def = DefaultEmbeddingModel
	}
	return embeddingModels[def], false
}
