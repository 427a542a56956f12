package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService provides semantic search over indexed endpoints.
type SearchService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	log      *logger.Logger

	limit    int
	minScore float64
}

// NewSearchService creates a new search service with limit 5 and minimum similarity 0.4.
func NewSearchService(embedder driven.EmbeddingService, store driven.VectorStore, log *logger.Logger) *SearchService {
	return &SearchService{
		embedder: embedder,
		store:    store,
		log:      log,
		limit:    domain.DefaultSearchLimit,
		minScore: domain.DefaultMinScore,
	}
}

// SetDefaults overrides the limit and minimum similarity used when a
// search does not specify them.
func (s *SearchService) SetDefaults(limit int, minScore float64) {
	if limit > 0 {
		s.limit = limit
	}
	if minScore >= 0 {
		s.minScore = minScore
	}
}

// Search embeds the query and returns the closest endpoints, most similar first.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchHit, error) {
	s.log.Section("Search Execution")
	s.log.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		s.log.Debug("Empty query, returning no results")
		return []domain.SearchHit{}, nil
	}

	if opts.Limit <= 0 {
		opts.Limit = s.limit
	}
	if opts.MinScore <= 0 {
		opts.MinScore = s.minScore
	}
	s.log.Debug("Limit: %d, MinScore: %.2f, Method: %q", opts.Limit, opts.MinScore, opts.Method)

	hits, err := SearchStore(ctx, s.embedder, s.store, query, opts)
	if err != nil {
		s.log.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	s.log.Info("Final results: %d", len(hits))
	return hits, nil
}
