package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

func seedVectorStore(t *testing.T) *VectorStore {
	t.Helper()
	store := NewVectorStore()
	require.NoError(t, store.Upsert(context.Background(), []driven.VectorRecord{
		{ID: "listPets", Document: "# GET /pets", Metadata: map[string]string{"method": "GET", "path": "/pets"}, Embedding: []float32{1, 0, 0}},
		{ID: "createPet", Document: "# POST /pets", Metadata: map[string]string{"method": "POST", "path": "/pets"}, Embedding: []float32{0.7, 0.7, 0}},
		{ID: "deletePet", Document: "# DELETE /pets/{id}", Metadata: map[string]string{"method": "DELETE", "path": "/pets/{id}"}, Embedding: []float32{0, 0, 1}},
	}))
	return store
}

func TestVectorStore_QueryOrdersByDistance(t *testing.T) {
	store := seedVectorStore(t)

	matches, err := store.Query(context.Background(), driven.VectorQuery{Embedding: []float32{1, 0, 0}, Limit: 2})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "listPets", matches[0].ID)
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	assert.Equal(t, "createPet", matches[1].ID)
	assert.Equal(t, "/pets", matches[1].Metadata["path"])
}

func TestVectorStore_QueryFilter(t *testing.T) {
	store := seedVectorStore(t)

	matches, err := store.Query(context.Background(), driven.VectorQuery{
		Embedding: []float32{1, 0, 0},
		Filter:    map[string]string{"method": "DELETE"},
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "deletePet", matches[0].ID)
	assert.InDelta(t, 1, matches[0].Distance, 1e-6)
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	store := seedVectorStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []driven.VectorRecord{{ID: "listPets", Document: "updated", Embedding: []float32{0, 0, 1}}}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{0, 0, 1}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	// Ties are broken by ID.
	assert.Equal(t, "deletePet", matches[0].ID)

	assert.ErrorIs(t, store.Upsert(ctx, []driven.VectorRecord{{Document: "no id"}}), domain.ErrInvalidInput)
}

func TestVectorStore_UpsertCopiesInput(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	meta := map[string]string{"method": "GET"}
	vec := []float32{1, 0}

	require.NoError(t, store.Upsert(ctx, []driven.VectorRecord{{ID: "a", Metadata: meta, Embedding: vec}}))
	meta["method"] = "POST"
	vec[0] = 0

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "GET", matches[0].Metadata["method"])
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
}

func TestVectorStore_Delete(t *testing.T) {
	store := seedVectorStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, map[string]string{"path": "/pets"}))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete(ctx, nil))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, store.Close())
}

func TestVectorStore_Concurrent(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, []driven.VectorRecord{{ID: fmt.Sprintf("r%d", i), Embedding: []float32{float32(i), 1}}})
			_, _ = store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 1}, Limit: 3})
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
