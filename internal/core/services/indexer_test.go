package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

func testRecords(n int) []domain.ExtractionRecord {
	records := make([]domain.ExtractionRecord, n)
	for i := range records {
		records[i] = domain.ExtractionRecord{
			ID:      fmt.Sprintf("op%d", i),
			Method:  "GET",
			Path:    fmt.Sprintf("/items/%d", i),
			Content: fmt.Sprintf("# GET /items/%d", i),
			Context: domain.EndpointContext{OperationID: fmt.Sprintf("op%d", i), Tags: []string{"items", "read"}},
		}
	}
	return records
}

func TestIndexService_Index(t *testing.T) {
	store := &mockVectorStore{}
	service := NewIndexService(&mockEmbeddingService{}, store, nil)
	service.SetBatchSize(3)

	stats, err := service.Index(t.Context(), testRecords(7))
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 7, stats.Indexed)
	assert.Zero(t, stats.Failed)

	ids := store.upsertedIDs()
	sort.Strings(ids)
	assert.Equal(t, []string{"op0", "op1", "op2", "op3", "op4", "op5", "op6"}, ids)
}

func TestIndexService_Index_Metadata(t *testing.T) {
	store := &mockVectorStore{}
	service := NewIndexService(&mockEmbeddingService{}, store, nil)

	_, err := service.Index(t.Context(), testRecords(1))
	require.NoError(t, err)

	require.Len(t, store.upserted, 1)
	rec := store.upserted[0]
	assert.Equal(t, "# GET /items/0", rec.Document)
	assert.Equal(t, map[string]string{
		driven.MetaPath:        "/items/0",
		driven.MetaMethod:      "GET",
		driven.MetaOperationID: "op0",
		driven.MetaTags:        "items,read",
	}, rec.Metadata)
	assert.Len(t, rec.Embedding, 3)
}

func TestIndexService_Index_PerDocumentFailures(t *testing.T) {
	records := testRecords(4)
	embedder := &mockEmbeddingService{failFor: map[string]error{records[1].Content: errBackend}}
	store := &mockVectorStore{}
	service := NewIndexService(embedder, store, nil)
	service.SetBatchSize(2)

	stats, err := service.Index(t.Context(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Indexed)
	assert.Equal(t, 1, stats.Failed)
	assert.NotContains(t, store.upsertedIDs(), "op1")
}

func TestIndexService_Index_DimensionMismatchCountsAsFailure(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1}, dims: 3}
	store := &mockVectorStore{}
	service := NewIndexService(embedder, store, nil)

	stats, err := service.Index(t.Context(), testRecords(2))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)
	assert.Empty(t, store.upserted)
}

func TestIndexService_Index_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	service := NewIndexService(&mockEmbeddingService{}, &mockVectorStore{}, nil)
	service.SetBatchSize(2)
	service.SetRateLimit(1)

	stats, err := service.Index(ctx, testRecords(5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Indexed)
	assert.Equal(t, 5, stats.Failed)
}

func TestIndexService_Index_RateLimited(t *testing.T) {
	service := NewIndexService(&mockEmbeddingService{}, &mockVectorStore{}, nil)
	service.SetRateLimit(20)

	start := time.Now()
	stats, err := service.Index(t.Context(), testRecords(25))
	require.NoError(t, err)

	assert.Equal(t, 25, stats.Indexed)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestIndexService_Unavailable(t *testing.T) {
	ctx := t.Context()

	_, err := NewIndexService(nil, &mockVectorStore{}, nil).Index(ctx, testRecords(1))
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	noStore := NewIndexService(&mockEmbeddingService{}, nil, nil)
	_, err = noStore.Index(ctx, testRecords(1))
	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
	assert.ErrorIs(t, noStore.Clear(ctx), domain.ErrVectorStoreUnavailable)
	_, err = noStore.Count(ctx)
	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestIndexService_ClearAndCount(t *testing.T) {
	store := &mockVectorStore{count: 12}
	service := NewIndexService(&mockEmbeddingService{}, store, nil)

	require.NoError(t, service.Clear(t.Context()))
	require.Len(t, store.deletes, 1)
	assert.Empty(t, store.deletes[0])

	n, err := service.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	store.deleteErr = errBackend
	assert.ErrorIs(t, service.Clear(t.Context()), errBackend)

	store.countErr = errBackend
	_, err = service.Count(t.Context())
	assert.ErrorIs(t, err, errBackend)
}

// gatedEmbedder holds every Embed call until the test releases it, recording
// how many calls run at once.
type gatedEmbedder struct {
	mockEmbeddingService
	release chan struct{}

	gate     sync.Mutex
	started  int
	inFlight int
	peak     int
}

func (g *gatedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	g.gate.Lock()
	g.started++
	g.inFlight++
	g.peak = max(g.peak, g.inFlight)
	g.gate.Unlock()

	defer func() {
		g.gate.Lock()
		g.inFlight--
		g.gate.Unlock()
	}()

	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.mockEmbeddingService.Embed(ctx, text)
}

func (g *gatedEmbedder) snapshot() (started, inFlight, peak int) {
	g.gate.Lock()
	defer g.gate.Unlock()
	return g.started, g.inFlight, g.peak
}

func TestIndexService_Index_RunsBatchesOneAfterAnother(t *testing.T) {
	embedder := &gatedEmbedder{release: make(chan struct{})}
	store := &mockVectorStore{}
	service := NewIndexService(embedder, store, nil)

	type result struct {
		stats domain.IndexStats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := service.Index(t.Context(), testRecords(25))
		done <- result{stats, err}
	}()

	var waves []int
	released := 0
	for _, want := range []int{10, 10, 5} {
		require.Eventually(t, func() bool {
			started, _, _ := embedder.snapshot()
			return started == released+want
		}, 2*time.Second, time.Millisecond)

		// Nothing from the next batch starts while this one is held.
		assert.Never(t, func() bool {
			started, _, _ := embedder.snapshot()
			return started > released+want
		}, 50*time.Millisecond, 5*time.Millisecond)

		_, inFlight, _ := embedder.snapshot()
		waves = append(waves, inFlight)
		for range want {
			embedder.release <- struct{}{}
		}
		released += want
	}

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 25, res.stats.Indexed)
	assert.Equal(t, []int{10, 10, 5}, waves)

	_, _, peak := embedder.snapshot()
	assert.LessOrEqual(t, peak, domain.DefaultBatchSize)
	assert.Len(t, store.upsertedIDs(), 25)
}
