// Package domain defines the core entities for Arielle.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Object / RawSpec: an order-preserving OpenAPI document tree
//   - Endpoint: one normalised (path, method) operation
//   - ExtractedInfo / EmbeddingDocument: what/why records and their Markdown rendering
//   - QueryResult / BatchQueryResult / Answer: retrieval-augmented query results
//   - AppSettings: provider, vector store and indexing configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
