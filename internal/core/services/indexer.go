package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService uploads endpoint documents to the vector store.
type IndexService struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	log       *logger.Logger
	batchSize int
	limiter   *rate.Limiter
}

// NewIndexService creates an indexer with the default batch size and no rate limit.
func NewIndexService(embedder driven.EmbeddingService, store driven.VectorStore, log *logger.Logger) *IndexService {
	return &IndexService{
		embedder:  embedder,
		store:     store,
		log:       log,
		batchSize: domain.DefaultBatchSize,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
}

// SetBatchSize sets how many documents are embedded concurrently.
func (s *IndexService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// SetRateLimit caps embedding requests per second. Zero or less disables the cap.
func (s *IndexService) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Index embeds and upserts records batch by batch. Documents inside a batch
// run concurrently; the next batch starts once every document of the
// previous one has settled. Per-document failures are logged and counted.
func (s *IndexService) Index(ctx context.Context, records []domain.ExtractionRecord) (domain.IndexStats, error) {
	stats := domain.IndexStats{Total: len(records)}
	if s.embedder == nil {
		return stats, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return stats, domain.ErrVectorStoreUnavailable
	}

	start := time.Now()
	var indexed, failed atomic.Int64

	for begin := 0; begin < len(records); begin += s.batchSize {
		end := min(begin+s.batchSize, len(records))
		batch := records[begin:end]
		s.log.Debug("Indexing batch %d-%d of %d", begin+1, end, len(records))

		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(rec *domain.ExtractionRecord) {
				defer wg.Done()
				if err := s.indexOne(ctx, rec); err != nil {
					failed.Add(1)
					s.log.Error("Error indexing endpoint %s %s: %v", rec.Method, rec.Path, err)
					return
				}
				indexed.Add(1)
			}(&batch[i])
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			stats.Indexed = int(indexed.Load())
			stats.Failed = len(records) - stats.Indexed
			stats.Duration = time.Since(start)
			return stats, err
		}
	}

	stats.Indexed = int(indexed.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(start)
	s.log.Info("Indexed %d of %d endpoints in %s", stats.Indexed, stats.Total, stats.Duration.Round(time.Millisecond))
	return stats, nil
}

func (s *IndexService) indexOne(ctx context.Context, rec *domain.ExtractionRecord) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	vec, err := s.embedder.Embed(ctx, rec.Content)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if err := domain.CheckEmbeddingDimensions(s.embedder.ModelName(), vec, s.embedder.Dimensions()); err != nil {
		return err
	}

	return s.store.Upsert(ctx, []driven.VectorRecord{{
		ID:        rec.ID,
		Document:  rec.Content,
		Metadata:  RecordMetadata(rec),
		Embedding: vec,
	}})
}

// RecordMetadata returns the vector-store metadata of an extraction record.
func RecordMetadata(rec *domain.ExtractionRecord) map[string]string {
	return map[string]string{
		driven.MetaPath:        rec.Path,
		driven.MetaMethod:      rec.Method,
		driven.MetaOperationID: rec.Context.OperationID,
		driven.MetaTags:        strings.Join(rec.Context.Tags, ","),
	}
}

// Clear removes every record from the collection.
func (s *IndexService) Clear(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrVectorStoreUnavailable
	}
	if err := s.store.Delete(ctx, nil); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	s.log.Info("Cleared vector store collection")
	return nil
}

// Count returns the number of indexed records.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrVectorStoreUnavailable
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count collection: %w", err)
	}
	return n, nil
}
