package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

func TestRetrieveContext(t *testing.T) {
	store := &mockVectorStore{matches: testMatches()}

	block, hits, err := RetrieveContext(t.Context(), &mockEmbeddingService{}, store, "list pets", 5)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "[GET /pets | Similarity: 0.90]\n# GET /pets\n\n[POST /pets | Similarity: 0.50]\n# POST /pets", block)
	assert.Equal(t, 5, store.queries[0].Limit)
}

func TestRetrieveContext_DefaultLimit(t *testing.T) {
	store := &mockVectorStore{}

	_, _, err := RetrieveContext(t.Context(), &mockEmbeddingService{}, store, "q", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultContextResults, store.queries[0].Limit)
}

func TestSearchStore_ConvertsMatches(t *testing.T) {
	hits, err := SearchStore(t.Context(), &mockEmbeddingService{}, &mockVectorStore{matches: testMatches()},
		"q", domain.SearchOptions{Limit: 5})
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "listPets", hits[0].ID)
	assert.Equal(t, "GET", hits[0].Method)
	assert.Equal(t, "/pets", hits[0].Path)
	assert.Equal(t, "listPets", hits[0].OperationID)
	assert.Equal(t, []string{"pets", "store"}, hits[0].Tags)
	assert.InDelta(t, 0.9, hits[0].Similarity, 1e-9)
	assert.Nil(t, hits[1].Tags)
}

func TestSearchStore_MinScoreAndMethod(t *testing.T) {
	store := &mockVectorStore{matches: testMatches()}

	hits, err := SearchStore(t.Context(), &mockEmbeddingService{}, store, "q",
		domain.SearchOptions{Limit: 5, MinScore: 0.6, Method: "get"})
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "listPets", hits[0].ID)
	assert.Equal(t, map[string]string{driven.MetaMethod: "GET"}, store.queries[0].Filter)
}

func TestSearchStore_Errors(t *testing.T) {
	ctx := t.Context()
	opts := domain.SearchOptions{}

	_, err := SearchStore(ctx, nil, &mockVectorStore{}, "q", opts)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = SearchStore(ctx, &mockEmbeddingService{}, nil, "q", opts)
	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)

	_, err = SearchStore(ctx, &mockEmbeddingService{embedErr: errBackend}, &mockVectorStore{}, "q", opts)
	assert.ErrorIs(t, err, errBackend)

	_, err = SearchStore(ctx, &mockEmbeddingService{}, &mockVectorStore{queryErr: errBackend}, "q", opts)
	assert.ErrorIs(t, err, errBackend)
}

func TestSearchStore_DimensionMismatch(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 2}, dims: 3}

	_, err := SearchStore(t.Context(), embedder, &mockVectorStore{}, "q", domain.SearchOptions{})

	var mismatch *domain.EmbeddingDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Empty(t, FormatContext(nil))
}
