package services

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on search hits.
type ResultActionService struct {
	writeClipboard func(string) error
}

// NewResultActionService creates a new result action service backed by the
// system clipboard.
func NewResultActionService() *ResultActionService {
	if clipboard.Unsupported {
		return &ResultActionService{}
	}
	return &ResultActionService{writeClipboard: clipboard.WriteAll}
}

// CopyToClipboard copies the hit's endpoint document to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, hit *domain.SearchHit) error {
	if hit == nil {
		return fmt.Errorf("%w: hit is nil", domain.ErrInvalidInput)
	}
	if s.writeClipboard == nil {
		return fmt.Errorf("clipboard not available on this system")
	}

	content := hit.Document
	if content == "" {
		content = hit.Method + " " + hit.Path
	}
	if err := s.writeClipboard(content); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
