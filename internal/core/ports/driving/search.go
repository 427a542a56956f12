package driving

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search performs semantic search across indexed endpoints.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error)
}
