package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_endpoints tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"what you want to do with the API, in plain words"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of endpoints to return (default 5)"`
	Method string `json:"method,omitempty" jsonschema:"restrict results to one HTTP method such as GET"`
}

// SearchOutput is the output schema for the search_endpoints tool.
type SearchOutput struct {
	Results []EndpointHit `json:"results"`
	Count   int           `json:"count"`
}

// EndpointHit represents a single search result.
type EndpointHit struct {
	ID         string   `json:"id"`
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Tags       []string `json:"tags,omitempty"`
	Similarity float64  `json:"similarity"`
	Document   string   `json:"document,omitempty"`
}

// AskInput is the input schema for the ask_api tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question about the API"`
}

// AskOutput is the output schema for the ask_api tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Intents  []string `json:"intents"`
	Warnings string   `json:"warnings,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

// ListInput is the input schema for the list_endpoints tool.
type ListInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"only list endpoints whose first tag matches"`
}

// ListOutput is the output schema for the list_endpoints tool.
type ListOutput struct {
	API       string            `json:"api,omitempty"`
	Version   string            `json:"version,omitempty"`
	Endpoints []EndpointSummary `json:"endpoints"`
	Count     int               `json:"count"`
}

// EndpointSummary is one entry of list_endpoints.
type EndpointSummary struct {
	ID         string   `json:"id"`
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Tags       []string `json:"tags,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty"`
	What       string   `json:"what,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_endpoints",
		Description: "Find API endpoints relevant to a task using semantic search",
	}, s.handleSearch)

	if s.ports.Assistant != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_api",
			Description: "Ask a question about the API and get an answer grounded in its endpoints",
		}, s.handleAsk)
	}

	if s.ports.Catalog != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_endpoints",
			Description: "List the endpoints of the loaded OpenAPI document",
		}, s.handleList)
	}
}

// handleSearch handles the search_endpoints tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:  input.Limit,
		Method: strings.ToUpper(input.Method),
	}
	hits, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]EndpointHit, len(hits)),
		Count:   len(hits),
	}
	for i := range hits {
		output.Results[i] = EndpointHit{
			ID:         hits[i].ID,
			Method:     hits[i].Method,
			Path:       hits[i].Path,
			Tags:       hits[i].Tags,
			Similarity: hits[i].Similarity,
			Document:   hits[i].Document,
		}
	}
	return nil, output, nil
}

// handleAsk handles the ask_api tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	answer, err := s.ports.Assistant.Ask(ctx, question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if answer.Warnings != "" {
		s.log.Warn("%s", answer.Warnings)
	}
	return nil, AskOutput{
		Answer:   answer.Text,
		Intents:  answer.Intents,
		Warnings: answer.Warnings,
		Sources:  answer.Sources,
	}, nil
}

// handleList handles the list_endpoints tool invocation.
func (s *Server) handleList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	var output ListOutput
	if api, ok := s.ports.Catalog.API(); ok {
		output.API = api.Title
		output.Version = api.Version
	}

	records := s.ports.Catalog.List(input.Tag)
	output.Endpoints = make([]EndpointSummary, len(records))
	output.Count = len(records)
	for i := range records {
		output.Endpoints[i] = summarise(&records[i])
	}
	return nil, output, nil
}

func summarise(rec *domain.ExtractionRecord) EndpointSummary {
	sum := EndpointSummary{
		ID:         rec.ID,
		Method:     rec.Method,
		Path:       rec.Path,
		Tags:       rec.Context.Tags,
		Deprecated: rec.Context.Deprecated,
	}
	if len(rec.What) > 0 {
		sum.What = rec.What[0]
	}
	return sum
}
