package driven

import "context"

// VectorStore holds endpoint documents and answers nearest-neighbour queries.
// The store may be shared with other writers; callers must not cache counts
// or listings across calls.
type VectorStore interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Query returns up to q.Limit records closest to q.Embedding, nearest first.
	Query(ctx context.Context, q VectorQuery) ([]VectorMatch, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Delete removes records whose metadata matches every filter entry.
	// An empty filter removes everything.
	Delete(ctx context.Context, filter map[string]string) error

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored document.
type VectorRecord struct {
	ID        string
	Document  string
	Metadata  map[string]string
	Embedding []float32
}

// VectorQuery describes a similarity search.
type VectorQuery struct {
	Embedding []float32
	Limit     int

	// Filter restricts matches to records whose metadata matches every entry.
	Filter map[string]string
}

// VectorMatch is a query result.
type VectorMatch struct {
	ID       string
	Document string
	Metadata map[string]string

	// Distance is the cosine distance (0 = identical). Similarity is 1 - Distance.
	Distance float64
}

// Metadata keys written for every endpoint record.
const (
	MetaPath        = "path"
	MetaMethod      = "method"
	MetaOperationID = "operation_id"
	MetaTags        = "tags"
)
