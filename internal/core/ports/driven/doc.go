// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SpecLoader: Reads an OpenAPI document from a file or URL
//   - ExtractionWriter: Persists the extraction artifact
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, indexing and search are disabled.
//   - VectorStore: Stores endpoint documents for similarity search.
//   - LLMService: Language model completion. Without it, `ask` and `chat` are disabled.
//   - FileWatcher: Change notification for `start --watch`.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
