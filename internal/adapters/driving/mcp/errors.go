// Package mcp provides an MCP (Model Context Protocol) server adapter for arielle.
// It lets AI assistants search the indexed API, ask questions about it and
// browse its endpoints.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
