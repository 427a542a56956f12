package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for arielle resources.
	uriScheme = "arielle://"
)

// registerResources registers the endpoint resources when a catalog is available.
func (s *Server) registerResources() {
	if s.ports.Catalog == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "endpoints",
		Name:        "endpoints",
		Description: "All endpoints of the loaded OpenAPI document",
		MIMEType:    "application/json",
	}, s.handleEndpointsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "endpoints/{endpointId}",
		Name:        "endpoint-document",
		Description: "Markdown document describing one endpoint",
		MIMEType:    "text/markdown",
	}, s.handleEndpointResource)
}

// handleEndpointsResource returns a summary of every endpoint.
func (s *Server) handleEndpointsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records := s.ports.Catalog.List("")
	summaries := make([]EndpointSummary, len(records))
	for i := range records {
		summaries[i] = summarise(&records[i])
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling endpoints: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEndpointResource returns the rendered document of one endpoint.
func (s *Server) handleEndpointResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract endpointId from URI: arielle://endpoints/{endpointId}
	id := extractEndpointID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Catalog.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting endpoint: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     rec.Content,
		}},
	}, nil
}

// extractEndpointID extracts the endpoint ID from a URI like arielle://endpoints/{endpointId}.
func extractEndpointID(uri string) string {
	const prefix = uriScheme + "endpoints/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
