package driving

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// PipelineService turns an OpenAPI document into indexed endpoint documents.
type PipelineService interface {
	// Run loads, validates, processes and extracts the document, writes the
	// artifact and optionally indexes it.
	Run(ctx context.Context, opts domain.RunOptions) (*domain.RunResult, error)
}

// IndexService manages the vector store collection.
type IndexService interface {
	// Index embeds and upserts records in fixed-size concurrent batches.
	Index(ctx context.Context, records []domain.ExtractionRecord) (domain.IndexStats, error)

	// Clear removes every record from the collection.
	Clear(ctx context.Context) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}

// CatalogService exposes the endpoints of the most recently processed document.
type CatalogService interface {
	// Load replaces the catalog with the records of a run.
	Load(result *domain.RunResult)

	// API returns the summary of the loaded document; ok is false when nothing is loaded.
	API() (api domain.APIInfo, ok bool)

	// List returns records in document order, restricted to a primary tag when tag is set.
	List(tag string) []domain.ExtractionRecord

	// Get returns one record by id, or domain.ErrNotFound.
	Get(id string) (*domain.ExtractionRecord, error)
}
