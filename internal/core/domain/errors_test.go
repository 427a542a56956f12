package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
		{"ErrSpecLoad", ErrSpecLoad},
		{"ErrSpecValidation", ErrSpecValidation},
		{"ErrSpecReference", ErrSpecReference},
		{"ErrOperationProcessing", ErrOperationProcessing},
		{"ErrEmbeddingDimension", ErrEmbeddingDimension},
		{"ErrIntentDetection", ErrIntentDetection},
		{"ErrQueryExecution", ErrQueryExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestLoadError(t *testing.T) {
	cause := errors.New("status 404")
	err := &LoadError{Source: "https://example.com/api.yaml", Err: cause}

	assert.Contains(t, err.Error(), "https://example.com/api.yaml")
	assert.Contains(t, err.Error(), "status 404")
	assert.ErrorIs(t, err, ErrSpecLoad)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("pipeline: %w", err)
	var loadErr *LoadError
	require.True(t, errors.As(wrapped, &loadErr))
	assert.Equal(t, "https://example.com/api.yaml", loadErr.Source)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Message: "missing or invalid paths object"}

	assert.Equal(t, "Invalid OpenAPI spec: missing or invalid paths object", err.Error())
	assert.ErrorIs(t, err, ErrSpecValidation)
	assert.NotErrorIs(t, err, ErrSpecReference)
}

func TestReferenceError(t *testing.T) {
	err := &ReferenceError{
		Ref:     "#/components/schemas/Missing",
		Context: "components.schemas.Alias",
		Reason:  "component 'Missing' not found in schemas",
	}

	assert.Equal(t,
		"Invalid reference '#/components/schemas/Missing' in components.schemas.Alias: component 'Missing' not found in schemas",
		err.Error())
	assert.ErrorIs(t, err, ErrSpecReference)
}

func TestOperationProcessingError(t *testing.T) {
	cause := errors.New("responses must be an object")
	err := &OperationProcessingError{Method: "GET", Path: "/pets", Err: cause}

	assert.Equal(t, "GET /pets: responses must be an object", err.Error())
	assert.ErrorIs(t, err, ErrOperationProcessing)
	assert.ErrorIs(t, err, cause)
}

func TestCheckEmbeddingDimensions(t *testing.T) {
	assert.NoError(t, CheckEmbeddingDimensions("m", make([]float32, 3), 3))
	assert.NoError(t, CheckEmbeddingDimensions("m", make([]float32, 3), 0))

	err := CheckEmbeddingDimensions("text-embedding-004", make([]float32, 2), 768)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingDimension)

	var mismatch *EmbeddingDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 768, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func TestQueryExecutionError(t *testing.T) {
	cause := errors.New("rate limited")
	err := &QueryExecutionError{Query: "list pets", Err: cause}

	assert.Equal(t, "rate limited", err.Error())
	assert.ErrorIs(t, err, ErrQueryExecution)
	assert.ErrorIs(t, err, cause)
}
