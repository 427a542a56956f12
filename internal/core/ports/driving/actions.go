package driving

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// ResultActionService provides actions on search hits for external actors.
// This is used by the TUI and CLI adapters.
type ResultActionService interface {
	// CopyToClipboard copies the hit's endpoint document to the system clipboard.
	CopyToClipboard(ctx context.Context, hit *domain.SearchHit) error
}
