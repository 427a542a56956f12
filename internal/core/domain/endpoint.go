package domain

// Parameter is a resolved operation parameter.
type Parameter struct {
	// Name is the parameter name ("unknown" when its reference could not be resolved).
	Name string `json:"name"`

	// In is the location: query, header, path or cookie.
	In string `json:"in"`

	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`

	// Schema is the raw schema node, usually an *Object.
	Schema any `json:"schema,omitempty"`
}

// MediaType pairs a content type with its schema node.
type MediaType struct {
	ContentType string `json:"contentType"`
	Schema      any    `json:"schema,omitempty"`
}

// RequestBody is a resolved operation request body.
type RequestBody struct {
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Content     []MediaType `json:"content,omitempty"`
}

// ContentTypes returns the declared content types in document order.
func (b *RequestBody) ContentTypes() []string {
	return contentTypes(b.Content)
}

// Response describes one status code of an operation.
type Response struct {
	StatusCode  string      `json:"statusCode"`
	Description string      `json:"description"`
	Content     []MediaType `json:"content,omitempty"`
}

// ContentTypes returns the declared content types in document order.
func (r *Response) ContentTypes() []string {
	return contentTypes(r.Content)
}

// ExternalDocs references documentation outside the OpenAPI document.
type ExternalDocs struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Endpoint is one normalised (path, method) operation.
// Endpoints are built once by the processor and never mutated.
type Endpoint struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	OperationID string   `json:"operationId"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`

	// Parameters holds path-item parameters followed by operation parameters.
	Parameters []Parameter `json:"parameters"`

	// RequestBody is nil when absent or unresolvable.
	RequestBody *RequestBody `json:"requestBody"`

	// Responses are in document order and include "default" when declared.
	Responses []Response `json:"responses"`

	// Security is the operation's own requirement list, never the document default.
	Security []any `json:"security"`

	Deprecated   bool          `json:"deprecated"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`

	// NLPText is a whitespace-normalised flattening of the operation for keyword use.
	NLPText string `json:"nlpText"`
}

// PrimaryTag returns the first tag, or "Other".
func (e *Endpoint) PrimaryTag() string {
	if len(e.Tags) > 0 && e.Tags[0] != "" {
		return e.Tags[0]
	}
	return "Other"
}

// TagGroup is a set of endpoints sharing a primary tag.
type TagGroup struct {
	Tag       string
	Endpoints []Endpoint
}

// GroupByTag groups endpoints by primary tag, keeping first-seen tag order.
func GroupByTag(endpoints []Endpoint) []TagGroup {
	var groups []TagGroup
	index := make(map[string]int)
	for i := range endpoints {
		tag := endpoints[i].PrimaryTag()
		pos, ok := index[tag]
		if !ok {
			pos = len(groups)
			index[tag] = pos
			groups = append(groups, TagGroup{Tag: tag})
		}
		groups[pos].Endpoints = append(groups[pos].Endpoints, endpoints[i])
	}
	return groups
}

func contentTypes(media []MediaType) []string {
	types := make([]string, len(media))
	for i, m := range media {
		types[i] = m.ContentType
	}
	return types
}
