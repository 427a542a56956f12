package driven

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// SpecLoader reads an OpenAPI document from a file path or an HTTP(S) URL
// and decodes it into an ordered tree of *domain.Object, []any and scalars.
// The result is not validated. Failures are *domain.LoadError.
type SpecLoader interface {
	Load(ctx context.Context, source string) (any, error)
}

// ExtractionWriter persists the extraction artifact.
type ExtractionWriter interface {
	// Write stores the records under dir and returns the location written to.
	// An empty dir means the writer's default.
	Write(ctx context.Context, dir string, records []domain.ExtractionRecord) (string, error)
}

// FileWatcher reports changes to a single file.
type FileWatcher interface {
	// Watch emits on the returned channel each time path is written or replaced.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)
}
