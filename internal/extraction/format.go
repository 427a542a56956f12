package extraction

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// technicalDetails is the JSON block appended to documents with extra context.
type technicalDetails struct {
	OperationID string   `json:"operationId"`
	Tags        []string `json:"tags"`
	Deprecated  bool     `json:"deprecated"`
	Security    *[]any   `json:"security,omitempty"`
}

// FormatForEmbedding renders each record as Markdown. The output depends
// only on the input, so rendering the same records twice gives identical text.
func (e *Engine) FormatForEmbedding(extracted []domain.ExtractedInfo) []domain.EmbeddingDocument {
	docs := make([]domain.EmbeddingDocument, 0, len(extracted))
	for i := range extracted {
		docs = append(docs, domain.EmbeddingDocument{
			ID:      extracted[i].ID,
			Content: Render(&extracted[i]),
		})
	}
	return docs
}

// Render produces the Markdown document for one record.
func Render(info *domain.ExtractedInfo) string {
	sections := []string{"# " + strings.ToUpper(info.Method) + " " + info.Path}

	if len(info.What) > 0 {
		sections = append(sections, "## What This Endpoint Does")
		for _, w := range info.What {
			sections = append(sections, "- "+w)
		}
	}
	if len(info.Why) > 0 {
		sections = append(sections, "## Why This Endpoint Exists")
		for _, w := range info.Why {
			sections = append(sections, "- "+w)
		}
	}

	ctx := &info.Context
	if len(ctx.Parameters) > 0 {
		sections = append(sections, "## Parameters")
		sections = append(sections, formatParameters(ctx.Parameters)...)
	}
	if ctx.RequestBody != nil {
		sections = append(sections, "## Request Body", formatRequestBody(ctx.RequestBody))
	}
	if len(ctx.Responses) > 0 {
		sections = append(sections, "## Responses")
		sections = append(sections, formatResponses(ctx.Responses)...)
	}

	if ctx.HasDetails() {
		details := technicalDetails{
			OperationID: ctx.OperationID,
			Tags:        ctx.Tags,
			Deprecated:  ctx.Deprecated,
		}
		if details.Tags == nil {
			details.Tags = []string{}
		}
		if ctx.Security != nil {
			details.Security = &ctx.Security
		}
		if data, err := json.MarshalIndent(details, "", "  "); err == nil {
			sections = append(sections, "## Technical Details", "```json", string(data), "```")
		}
	}

	return strings.Join(sections, "\n\n")
}

// formatParameters renders one bullet per parameter; its parts are joined
// with single spaces, so continuation lines start with " \n  ".
func formatParameters(params []domain.Parameter) []string {
	lines := make([]string, 0, len(params))
	for _, p := range params {
		parts := []string{"- **" + p.Name + "** (" + p.In + ")"}
		if p.Required {
			parts = append(parts, "**[Required]**")
		}
		if p.Description != "" {
			parts = append(parts, "\n  "+p.Description)
		}
		if p.Schema != nil {
			parts = append(parts, "\n  Type: "+FormatSchema(p.Schema))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

func formatRequestBody(body *domain.RequestBody) string {
	var parts []string
	if body.Description != "" {
		parts = append(parts, "**Description**: "+body.Description)
	}
	if len(body.Content) > 0 {
		parts = append(parts, "**Content Types:**")
		for _, m := range body.Content {
			parts = append(parts, "- "+m.ContentType+":")
			if m.Schema != nil {
				parts = append(parts, "  - Schema: "+FormatSchema(m.Schema))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func formatResponses(responses []domain.Response) []string {
	lines := make([]string, 0, len(responses))
	for _, r := range responses {
		var b strings.Builder
		b.WriteString("- **" + r.StatusCode + "**")
		if r.Description != "" {
			b.WriteString(": " + r.Description)
		}
		if len(r.Content) > 0 {
			b.WriteString("\n  **Response Content:**")
			for _, m := range r.Content {
				b.WriteString("  - " + m.ContentType + ":")
				if m.Schema != nil {
					b.WriteString("    - Schema: " + FormatSchema(m.Schema))
				}
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

// FormatSchema summarises a schema node in one line.
func FormatSchema(schema any) string {
	obj, ok := domain.AsObject(schema)
	if !ok {
		if schema == nil {
			return "No schema defined"
		}
		return "Complex schema - see details in OpenAPI spec"
	}

	if t, ok := obj.Get("type"); ok && t != nil {
		var typ string
		switch v := t.(type) {
		case string:
			typ = v
		case []any:
			names := make([]string, 0, len(v))
			for _, n := range v {
				if s, ok := n.(string); ok {
					names = append(names, s)
				}
			}
			typ = strings.Join(names, " | ")
		}
		if typ != "" {
			if format, ok := obj.GetString("format"); ok && format != "" {
				return typ + " (" + format + ")"
			}
			return typ
		}
	}

	if ref, ok := obj.GetString("$ref"); ok && ref != "" {
		return "Reference to " + ref[strings.LastIndex(ref, "/")+1:]
	}

	return "Complex schema - see details in OpenAPI spec"
}
