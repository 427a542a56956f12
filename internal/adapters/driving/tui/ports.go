// Package tui provides an interactive terminal user interface for arielle.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions in the chat view.
	Assistant driving.AssistantService

	// Search provides endpoint search.
	Search driving.SearchService

	// ResultAction provides actions on search hits. Optional.
	ResultAction driving.ResultActionService

	// Catalog describes the loaded document for the menu header. Optional.
	Catalog driving.CatalogService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(assistant driving.AssistantService, search driving.SearchService) *Ports {
	return &Ports{
		Assistant: assistant,
		Search:    search,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
