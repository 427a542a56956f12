// Package extraction turns normalised endpoints into what/why records and
// renders each record as the Markdown document that gets embedded.
package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/logger"
	"github.com/custodia-labs/arielle-cli/internal/openapi"
)

var (
	idSeparators = regexp.MustCompile(`[{}/]`)
	dashRuns     = regexp.MustCompile(`--+`)
)

// Engine extracts and formats endpoint documents.
type Engine struct {
	log *logger.Logger
}

// NewEngine creates an extraction engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

// Extract builds one ExtractedInfo per endpoint, in input order.
// Colliding ids are made unique by appending -2, -3 and so on.
func (e *Engine) Extract(endpoints []domain.Endpoint) []domain.ExtractedInfo {
	seen := make(map[string]int, len(endpoints))
	out := make([]domain.ExtractedInfo, 0, len(endpoints))

	for i := range endpoints {
		info := extractOne(&endpoints[i])

		seen[info.ID]++
		if n := seen[info.ID]; n > 1 {
			unique := fmt.Sprintf("%s-%d", info.ID, n)
			for seen[unique] > 0 {
				n++
				unique = fmt.Sprintf("%s-%d", info.ID, n)
			}
			seen[info.ID] = n
			seen[unique]++
			e.log.Warn("Duplicate endpoint id '%s' for %s %s, using '%s'", info.ID, info.Method, info.Path, unique)
			info.ID = unique
		}

		out = append(out, info)
	}
	return out
}

// EndpointID returns the operationId, or a slug of method and path.
func EndpointID(ep *domain.Endpoint) string {
	if ep.OperationID != "" {
		return ep.OperationID
	}
	slug := idSeparators.ReplaceAllString(ep.Path, "-")
	slug = dashRuns.ReplaceAllString(slug, "-")
	slug = strings.TrimPrefix(slug, "-")
	slug = strings.TrimSuffix(slug, "-")
	return strings.ToLower(ep.Method) + "-" + slug
}

func extractOne(ep *domain.Endpoint) domain.ExtractedInfo {
	info := domain.ExtractedInfo{
		ID:     EndpointID(ep),
		Method: ep.Method,
		Path:   ep.Path,
		What:   []string{},
		Why:    []string{},
		Context: domain.EndpointContext{
			Tags:        ep.Tags,
			OperationID: ep.OperationID,
			Deprecated:  ep.Deprecated,
			Parameters:  ep.Parameters,
			RequestBody: ep.RequestBody,
			Responses:   ep.Responses,
			Security:    ep.Security,
		},
	}
	if info.Context.Tags == nil {
		info.Context.Tags = []string{}
	}

	if ep.Summary != "" {
		info.What = append(info.What, "**Summary**: "+ep.Summary)
	}

	if ep.Description != "" {
		paragraphs := strings.Split(ep.Description, "\n\n")
		info.What = append(info.What, "**Description**: "+strings.TrimSpace(paragraphs[0]))
		for _, p := range paragraphs[1:] {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !strings.HasSuffix(p, ".") {
				p += "."
			}
			info.Why = append(info.Why, p)
		}
	}

	info.What = append(info.What, "**Purpose**: "+openapi.DerivePurpose(ep.Method, ep.Path))

	for _, param := range ep.Parameters {
		if param.Description != "" {
			info.What = append(info.What, fmt.Sprintf("%s (%s): %s", param.Name, param.In, param.Description))
		}
	}

	if ep.RequestBody != nil && ep.RequestBody.Description != "" {
		info.What = append(info.What, "Request Body: "+ep.RequestBody.Description)
	}

	for _, resp := range ep.Responses {
		if resp.Description != "" {
			info.What = append(info.What, fmt.Sprintf("Response (%s): %s", resp.StatusCode, resp.Description))
		}
	}

	if ep.ExternalDocs != nil {
		line := "External Documentation: " + ep.ExternalDocs.URL
		if ep.ExternalDocs.Description != "" {
			line += " - " + ep.ExternalDocs.Description
		}
		info.Why = append(info.Why, line)
	}

	return info
}
