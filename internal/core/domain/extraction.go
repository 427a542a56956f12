package domain

// EndpointContext carries the structured detail of an endpoint for rendering.
// Tags, OperationID and Deprecated are always present; the other fields are
// set only when the endpoint has them.
type EndpointContext struct {
	Tags        []string     `json:"tags"`
	OperationID string       `json:"operationId"`
	Deprecated  bool         `json:"deprecated"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	Responses   []Response   `json:"responses,omitempty"`
	Security    []any        `json:"security,omitempty"`
}

// HasDetails reports whether the context holds more than the three baseline keys.
// A non-nil Security counts even when empty: the operation declared it.
func (c *EndpointContext) HasDetails() bool {
	return len(c.Parameters) > 0 || c.RequestBody != nil || len(c.Responses) > 0 || c.Security != nil
}

// ExtractedInfo is the what/why breakdown of one endpoint.
type ExtractedInfo struct {
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Path    string          `json:"path"`
	What    []string        `json:"what"`
	Why     []string        `json:"why"`
	Context EndpointContext `json:"context"`
}

// EmbeddingDocument is the Markdown text indexed for one endpoint.
type EmbeddingDocument struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ExtractionRecord is one entry of the JSON output artifact.
type ExtractionRecord struct {
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Path    string          `json:"path"`
	Content string          `json:"content"`
	What    []string        `json:"what"`
	Why     []string        `json:"why"`
	Context EndpointContext `json:"context"`
}

// NewExtractionRecord pairs an ExtractedInfo with its rendered document.
func NewExtractionRecord(info ExtractedInfo, doc EmbeddingDocument) ExtractionRecord {
	return ExtractionRecord{
		ID:      info.ID,
		Method:  info.Method,
		Path:    info.Path,
		Content: doc.Content,
		What:    info.What,
		Why:     info.Why,
		Context: info.Context,
	}
}
