package openapi

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

const (
	parameterRefPrefix   = "#/components/parameters/"
	requestBodyRefPrefix = "#/components/requestBodies/"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Processor turns a validated document into one Endpoint per operation.
type Processor struct {
	log *logger.Logger
}

// NewProcessor creates a processor that reports warnings through log.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{log: log}
}

// Process walks every path in document order and, for each recognised
// method present on the path item, builds an Endpoint. An operation that
// cannot be normalised is logged and skipped.
func (p *Processor) Process(spec *domain.RawSpec) []domain.Endpoint {
	paths := spec.Paths()
	components := spec.Components()

	var endpoints []domain.Endpoint
	for _, path := range paths.Keys() {
		item, ok := paths.GetObject(path)
		if !ok {
			continue
		}
		shared, _ := item.GetArray("parameters")

		for _, method := range domain.HTTPMethods {
			raw, ok := item.Get(method)
			if !ok || raw == nil {
				continue
			}
			ep, err := p.processOperation(path, method, raw, shared, components)
			if err != nil {
				var opErr *domain.OperationProcessingError
				if errors.As(err, &opErr) {
					err = opErr.Err
				}
				p.log.Warn("Skipping operation %s %s: %v", strings.ToUpper(method), path, err)
				continue
			}
			endpoints = append(endpoints, ep)
		}
	}

	p.log.Info("Processed %d endpoints", len(endpoints))
	return endpoints
}

func (p *Processor) processOperation(
	path, method string,
	raw any,
	shared []any,
	components *domain.Object,
) (domain.Endpoint, error) {
	fail := func(msg string) error {
		return &domain.OperationProcessingError{Method: strings.ToUpper(method), Path: path, Err: errors.New(msg)}
	}

	op, ok := domain.AsObject(raw)
	if !ok {
		return domain.Endpoint{}, fail("operation must be an object")
	}

	responsesNode, ok := op.GetObject("responses")
	if !ok {
		return domain.Endpoint{}, fail("missing or invalid responses object")
	}

	ep := domain.Endpoint{
		Path:        path,
		Method:      strings.ToUpper(method),
		OperationID: op.StringOr("operationId", ""),
		Summary:     op.StringOr("summary", ""),
		Description: op.StringOr("description", ""),
		Tags:        stringList(op, "tags"),
		Deprecated:  op.GetBool("deprecated"),
		Security:    []any{},
	}

	own, _ := op.GetArray("parameters")
	all := make([]any, 0, len(shared)+len(own))
	all = append(all, shared...)
	all = append(all, own...)
	ep.Parameters = p.resolveParameters(all, components)

	if body, ok := op.Get("requestBody"); ok && body != nil {
		ep.RequestBody = p.resolveRequestBody(body, components)
	}

	ep.Responses = processResponses(responsesNode)

	if sec, ok := op.GetArray("security"); ok {
		ep.Security = sec
	}

	if docs, ok := op.GetObject("externalDocs"); ok {
		if url, ok := docs.GetString("url"); ok && url != "" {
			ep.ExternalDocs = &domain.ExternalDocs{URL: url, Description: docs.StringOr("description", "")}
		}
	}

	ep.NLPText = nlpText(&ep)
	return ep, nil
}

// resolveParameters follows one level of $ref into components.parameters.
// Unresolvable references become an "unknown" query placeholder.
func (p *Processor) resolveParameters(params []any, components *domain.Object) []domain.Parameter {
	out := make([]domain.Parameter, 0, len(params))
	for _, raw := range params {
		obj, ok := domain.AsObject(raw)
		if !ok {
			continue
		}

		ref, isRef := obj.GetString("$ref")
		if !isRef {
			out = append(out, toParameter(obj))
			continue
		}

		if !strings.HasPrefix(ref, parameterRefPrefix) {
			p.log.Warn("Unsupported parameter reference: %s", ref)
			out = append(out, unknownParameter())
			continue
		}

		name := lastSegment(ref)
		table, _ := components.GetObject("parameters")
		resolved, ok := table.GetObject(name)
		if name == "" || !ok {
			p.log.Warn("Parameter reference not found: %s", ref)
			out = append(out, unknownParameter())
			continue
		}

		if resolved.Has("$ref") {
			p.log.Warn("Nested parameter references are not fully supported: %s", ref)
			partial := toParameter(resolved)
			if partial.Name == "" {
				partial.Name = name
			}
			if partial.In == "" {
				partial.In = "query"
			}
			out = append(out, partial)
			continue
		}

		out = append(out, toParameter(resolved))
	}
	return out
}

// resolveRequestBody follows one level of $ref into components.requestBodies.
// Any failure yields nil so the operation is still processed.
func (p *Processor) resolveRequestBody(raw any, components *domain.Object) *domain.RequestBody {
	body, ok := domain.AsObject(raw)
	if !ok {
		return nil
	}

	if ref, isRef := body.GetString("$ref"); isRef {
		if !strings.HasPrefix(ref, requestBodyRefPrefix) {
			p.log.Warn("Unsupported request body reference: %s", ref)
			return nil
		}
		name := lastSegment(ref)
		table, _ := components.GetObject("requestBodies")
		resolved, ok := table.GetObject(name)
		if name == "" || !ok {
			p.log.Warn("Request body reference not found: %s", ref)
			return nil
		}
		if resolved.Has("$ref") {
			p.log.Warn("Nested request body references are not fully supported: %s", ref)
			return nil
		}
		body = resolved
	}

	content, _ := body.GetObject("content")
	return &domain.RequestBody{
		Description: body.StringOr("description", ""),
		Required:    body.GetBool("required"),
		Content:     mediaTypes(content),
	}
}

func processResponses(responses *domain.Object) []domain.Response {
	out := make([]domain.Response, 0, responses.Len())
	for _, code := range responses.Keys() {
		resp, _ := responses.GetObject(code)
		content, _ := resp.GetObject("content")
		out = append(out, domain.Response{
			StatusCode:  code,
			Description: resp.StringOr("description", ""),
			Content:     mediaTypes(content),
		})
	}
	return out
}

func toParameter(obj *domain.Object) domain.Parameter {
	schema, _ := obj.Get("schema")
	return domain.Parameter{
		Name:        obj.StringOr("name", ""),
		In:          obj.StringOr("in", ""),
		Description: obj.StringOr("description", ""),
		Required:    obj.GetBool("required"),
		Schema:      schema,
	}
}

func unknownParameter() domain.Parameter {
	return domain.Parameter{Name: "unknown", In: "query"}
}

func mediaTypes(content *domain.Object) []domain.MediaType {
	if content == nil {
		return nil
	}
	out := make([]domain.MediaType, 0, content.Len())
	for _, ct := range content.Keys() {
		var schema any
		if media, ok := content.GetObject(ct); ok {
			schema, _ = media.Get("schema")
		}
		out = append(out, domain.MediaType{ContentType: ct, Schema: schema})
	}
	return out
}

func stringList(obj *domain.Object, key string) []string {
	arr, _ := obj.GetArray(key)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func lastSegment(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}

// nlpText flattens an endpoint into a single whitespace-normalised line.
func nlpText(ep *domain.Endpoint) string {
	parts := []string{ep.Path, ep.Method, ep.OperationID, ep.Summary, ep.Description}
	parts = append(parts, ep.Tags...)

	for _, param := range ep.Parameters {
		required := "optional"
		if param.Required {
			required = "required"
		}
		in := ""
		if param.In != "" {
			in = "in " + param.In
		}
		parts = append(parts, strings.TrimSpace(strings.Join([]string{param.Name, required, in, param.Description}, " ")))
	}
	for _, resp := range ep.Responses {
		parts = append(parts, strings.TrimSpace(resp.StatusCode+" "+resp.Description))
	}

	if ep.RequestBody != nil {
		parts = append(parts, "request body: "+ep.RequestBody.Description)
		for _, ct := range ep.RequestBody.ContentTypes() {
			parts = append(parts, "content type: "+ct)
		}
	}

	if len(ep.Security) > 0 {
		if data, err := json.Marshal(ep.Security); err == nil {
			parts = append(parts, "security requirements:", string(data))
		}
	}

	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.Join(kept, " "), " "))
}
