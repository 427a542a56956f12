package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// DefaultContextResults is the number of matches used to build a context block.
const DefaultContextResults = 5

// RetrieveContext embeds query, searches store for the k nearest endpoint
// documents and returns them formatted as a context block with their hits.
func RetrieveContext(
	ctx context.Context,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	query string,
	k int,
) (string, []domain.SearchHit, error) {
	hits, err := SearchStore(ctx, embedder, store, query, domain.SearchOptions{Limit: k})
	if err != nil {
		return "", nil, err
	}
	return FormatContext(hits), hits, nil
}

// SearchStore runs a similarity search and converts matches to hits.
// Matches below opts.MinScore are dropped.
func SearchStore(
	ctx context.Context,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchHit, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultContextResults
	}

	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if err := domain.CheckEmbeddingDimensions(embedder.ModelName(), vec, embedder.Dimensions()); err != nil {
		return nil, err
	}

	q := driven.VectorQuery{Embedding: vec, Limit: limit}
	if opts.Method != "" {
		q.Filter = map[string]string{driven.MetaMethod: strings.ToUpper(opts.Method)}
	}

	matches, err := store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(matches))
	for _, m := range matches {
		hit := matchToHit(m)
		if hit.Similarity < opts.MinScore {
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// FormatContext renders hits as "[METHOD path | Similarity: 0.87]" headers
// followed by the document text, separated by blank lines.
func FormatContext(hits []domain.SearchHit) string {
	blocks := make([]string, len(hits))
	for i, h := range hits {
		blocks[i] = fmt.Sprintf("[%s %s | Similarity: %.2f]\n%s", h.Method, h.Path, h.Similarity, h.Document)
	}
	return strings.Join(blocks, "\n\n")
}

func matchToHit(m driven.VectorMatch) domain.SearchHit {
	hit := domain.SearchHit{
		ID:          m.ID,
		Method:      m.Metadata[driven.MetaMethod],
		Path:        m.Metadata[driven.MetaPath],
		OperationID: m.Metadata[driven.MetaOperationID],
		Document:    m.Document,
		Similarity:  1 - m.Distance,
	}
	if tags := m.Metadata[driven.MetaTags]; tags != "" {
		hit.Tags = strings.Split(tags, ",")
	}
	return hit
}
