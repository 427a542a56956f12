package mcp

import (
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides vector search over indexed endpoints.
	Search driving.SearchService

	// Assistant answers questions. The ask_api tool is registered only when set.
	Assistant driving.AssistantService

	// Catalog lists the endpoints of the loaded document. The list_endpoints
	// tool and the endpoint resources are registered only when set.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
