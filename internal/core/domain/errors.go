package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or store kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Intent detection and answering are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and semantic search are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured or unreachable.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// Pipeline errors.

	// ErrSpecLoad indicates the OpenAPI document could not be read or parsed.
	ErrSpecLoad = errors.New("spec load failed")

	// ErrSpecValidation indicates a structural defect in the OpenAPI document.
	ErrSpecValidation = errors.New("spec validation failed")

	// ErrSpecReference indicates a $ref that does not resolve.
	ErrSpecReference = errors.New("unresolved reference")

	// ErrOperationProcessing indicates a single operation could not be normalised.
	ErrOperationProcessing = errors.New("operation processing failed")

	// Query errors.

	// ErrEmbeddingDimension indicates an embedding had the wrong length for its model.
	ErrEmbeddingDimension = errors.New("embedding dimension mismatch")

	// ErrIntentDetection indicates the classifier or decomposer call failed.
	ErrIntentDetection = errors.New("intent detection failed")

	// ErrQueryExecution indicates a retrieval-augmented query failed.
	ErrQueryExecution = errors.New("query execution failed")
)

// LoadError reports a spec source that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load OpenAPI spec from %s: %v", e.Source, e.Err)
}

// Unwrap returns the cause.
func (e *LoadError) Unwrap() []error { return []error{ErrSpecLoad, e.Err} }

// ValidationError reports a structural defect in the OpenAPI document.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "Invalid OpenAPI spec: " + e.Message
}

// Unwrap returns ErrSpecValidation.
func (e *ValidationError) Unwrap() error { return ErrSpecValidation }

// ReferenceError reports a component $ref that points nowhere.
type ReferenceError struct {
	// Ref is the offending pointer, e.g. "#/components/schemas/Pet".
	Ref string

	// Context is the location holding the pointer, e.g. "components.schemas.PetAlias".
	Context string

	// Reason explains what part of the pointer failed to resolve.
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("Invalid reference '%s' in %s: %s", e.Ref, e.Context, e.Reason)
}

// Unwrap returns ErrSpecReference.
func (e *ReferenceError) Unwrap() error { return ErrSpecReference }

// OperationProcessingError reports a single operation that was skipped.
type OperationProcessingError struct {
	Method string
	Path   string
	Err    error
}

func (e *OperationProcessingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the cause.
func (e *OperationProcessingError) Unwrap() []error {
	return []error{ErrOperationProcessing, e.Err}
}

// EmbeddingDimensionMismatch reports an embedding whose length disagrees with its model.
type EmbeddingDimensionMismatch struct {
	Model    string
	Expected int
	Actual   int
}

func (e *EmbeddingDimensionMismatch) Error() string {
	return fmt.Sprintf("embedding dimension mismatch for %s: expected %d, got %d",
		e.Model, e.Expected, e.Actual)
}

// Unwrap returns ErrEmbeddingDimension.
func (e *EmbeddingDimensionMismatch) Unwrap() error { return ErrEmbeddingDimension }

// CheckEmbeddingDimensions returns an EmbeddingDimensionMismatch when len(vec) != expected.
// An expected value of zero disables the check.
func CheckEmbeddingDimensions(model string, vec []float32, expected int) error {
	if expected > 0 && len(vec) != expected {
		return &EmbeddingDimensionMismatch{Model: model, Expected: expected, Actual: len(vec)}
	}
	return nil
}

// QueryExecutionError reports a failed sub-query in a batch.
type QueryExecutionError struct {
	Query string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the cause.
func (e *QueryExecutionError) Unwrap() []error {
	return []error{ErrQueryExecution, e.Err}
}
