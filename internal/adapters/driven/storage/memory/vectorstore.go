package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory vector store using brute-force cosine distance.
// Contents are lost when the process exits.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		records: make(map[string]driven.VectorRecord),
	}
}

// Upsert inserts or replaces records by ID.
func (s *VectorStore) Upsert(_ context.Context, records []driven.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if r.ID == "" {
			return domain.ErrInvalidInput
		}
		s.records[r.ID] = driven.VectorRecord{
			ID:        r.ID,
			Document:  r.Document,
			Metadata:  maps.Clone(r.Metadata),
			Embedding: slices.Clone(r.Embedding),
		}
	}
	return nil
}

// Query returns up to q.Limit records closest to q.Embedding, nearest first.
func (s *VectorStore) Query(_ context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]driven.VectorMatch, 0, len(s.records))
	for _, r := range s.records {
		if !MatchesFilter(r.Metadata, q.Filter) {
			continue
		}
		matches = append(matches, driven.VectorMatch{
			ID:       r.ID,
			Document: r.Document,
			Metadata: maps.Clone(r.Metadata),
			Distance: domain.CosineDistance(q.Embedding, r.Embedding),
		})
	}

	SortMatches(matches)
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Delete removes records whose metadata matches every filter entry.
// An empty filter removes everything.
func (s *VectorStore) Delete(_ context.Context, filter map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(filter) == 0 {
		s.records = make(map[string]driven.VectorRecord)
		return nil
	}
	for id, r := range s.records {
		if MatchesFilter(r.Metadata, filter) {
			delete(s.records, id)
		}
	}
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// MatchesFilter reports whether metadata contains every filter entry.
func MatchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// SortMatches orders matches nearest first, breaking ties by ID.
func SortMatches(matches []driven.VectorMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
}
