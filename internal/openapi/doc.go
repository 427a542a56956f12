// Package openapi loads, validates and normalises OpenAPI 3.0 documents.
//
// Documents are decoded into ordered domain.Object trees so that paths,
// operations and responses keep the order the author wrote them in. The
// processor turns every (path, method) pair into a domain.Endpoint, resolving
// one level of component references for parameters and request bodies.
package openapi
