// Package chroma provides a vector store adapter for a Chroma server, using
// its v2 REST API directly.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second
	apiPrefix      = "/api/v2"
)

// Config holds configuration for the Chroma store.
type Config struct {
	// URL is the Chroma server address (default: http://localhost:8000).
	URL string

	// Collection is the collection name (default: openapi_endpoints).
	Collection string

	// Tenant owns the database (default: default_tenant).
	Tenant string

	// Database holds the collection (default: default_database).
	Database string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store keeps endpoint documents in one Chroma collection with cosine space.
// The collection is created on first use and its ID cached. Other writers may
// drop or recreate the collection, so a 404 on a collection call clears the
// cached ID and the call is retried once against a fresh lookup.
type Store struct {
	client      *http.Client
	baseURL     string
	collection  string
	collections string

	mu           sync.Mutex
	collectionID string
}

// NewStore creates a Chroma store. No request is made until first use.
func NewStore(cfg Config) *Store {
	if cfg.URL == "" {
		cfg.URL = domain.DefaultChromaURL
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if cfg.Tenant == "" {
		cfg.Tenant = domain.DefaultChromaTenant
	}
	if cfg.Database == "" {
		cfg.Database = domain.DefaultChromaDatabase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	collections := apiPrefix + "/tenants/" + url.PathEscape(cfg.Tenant) +
		"/databases/" + url.PathEscape(cfg.Database) + "/collections"
	return &Store{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSuffix(cfg.URL, "/"),
		collection:  cfg.Collection,
		collections: collections,
	}
}

type collectionRequest struct {
	Name        string            `json:"name"`
	Metadata    map[string]string `json:"metadata"`
	GetOrCreate bool              `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type upsertRequest struct {
	IDs        []string            `json:"ids"`
	Embeddings [][]float32         `json:"embeddings"`
	Documents  []string            `json:"documents"`
	Metadatas  []map[string]string `json:"metadatas"`
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Where           any         `json:"where,omitempty"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]*string        `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

type deleteRequest struct {
	Where any `json:"where"`
}

// ensureCollection returns the collection ID, creating the collection if needed.
func (s *Store) ensureCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}

	var resp collectionResponse
	err := s.do(ctx, http.MethodPost, s.collections, collectionRequest{
		Name:        s.collection,
		Metadata:    map[string]string{"hnsw:space": "cosine"},
		GetOrCreate: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("get or create collection %s: %w", s.collection, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma: collection %s has no id", s.collection)
	}
	s.collectionID = resp.ID
	return resp.ID, nil
}

// forget drops the cached ID if it is still id.
func (s *Store) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID == id {
		s.collectionID = ""
	}
}

// withCollection runs fn against the collection ID. When fn gets a 404 the
// collection was removed behind our back: look it up again and retry once.
func (s *Store) withCollection(ctx context.Context, fn func(id string) error) error {
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}
	err = fn(id)
	if !isNotFound(err) {
		return err
	}

	s.forget(id)
	id, err = s.ensureCollection(ctx)
	if err != nil {
		return err
	}
	return fn(id)
}

// Upsert inserts or replaces records by ID.
func (s *Store) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	req := upsertRequest{
		IDs:        make([]string, len(records)),
		Embeddings: make([][]float32, len(records)),
		Documents:  make([]string, len(records)),
		Metadatas:  make([]map[string]string, len(records)),
	}
	for i, r := range records {
		req.IDs[i] = r.ID
		req.Embeddings[i] = r.Embedding
		req.Documents[i] = r.Document
		req.Metadatas[i] = r.Metadata
		if req.Metadatas[i] == nil {
			req.Metadatas[i] = map[string]string{}
		}
	}
	return s.withCollection(ctx, func(id string) error {
		return s.do(ctx, http.MethodPost, s.collectionPath(id, "/upsert"), req, nil)
	})
}

// Query returns up to q.Limit records closest to q.Embedding, nearest first.
func (s *Store) Query(ctx context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	req := queryRequest{
		QueryEmbeddings: [][]float32{q.Embedding},
		NResults:        limit,
		Where:           whereClause(q.Filter),
		Include:         []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	err := s.withCollection(ctx, func(id string) error {
		resp = queryResponse{}
		return s.do(ctx, http.MethodPost, s.collectionPath(id, "/query"), req, &resp)
	})
	if err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}

	matches := make([]driven.VectorMatch, len(resp.IDs[0]))
	for i, matchID := range resp.IDs[0] {
		m := driven.VectorMatch{ID: matchID, Metadata: map[string]string{}}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) && resp.Documents[0][i] != nil {
			m.Document = *resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			for k, v := range resp.Metadatas[0][i] {
				m.Metadata[k] = fmt.Sprint(v)
			}
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			m.Distance = resp.Distances[0][i]
		}
		matches[i] = m
	}
	return matches, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.withCollection(ctx, func(id string) error {
		return s.do(ctx, http.MethodGet, s.collectionPath(id, "/count"), nil, &count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes records whose metadata matches every filter entry.
// An empty filter drops the collection; it is recreated on next use.
func (s *Store) Delete(ctx context.Context, filter map[string]string) error {
	if len(filter) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		err := s.do(ctx, http.MethodDelete, s.collections+"/"+url.PathEscape(s.collection), nil, nil)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("delete collection %s: %w", s.collection, err)
		}
		s.collectionID = ""
		return nil
	}

	req := deleteRequest{Where: whereClause(filter)}
	return s.withCollection(ctx, func(id string) error {
		return s.do(ctx, http.MethodPost, s.collectionPath(id, "/delete"), req, nil)
	})
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) collectionPath(id, suffix string) string {
	return s.collections + "/" + url.PathEscape(id) + suffix
}

// whereClause converts a metadata filter into Chroma's where syntax.
// Several entries are combined with $and.
func whereClause(filter map[string]string) any {
	switch len(filter) {
	case 0:
		return nil
	case 1:
		for k, v := range filter {
			return map[string]string{k: v}
		}
	}
	clauses := make([]map[string]string, 0, len(filter))
	for _, k := range sortedKeys(filter) {
		clauses = append(clauses, map[string]string{k: filter[k]})
	}
	return map[string]any{"$and": clauses}
}

// statusError is a non-2xx response from the server.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("chroma error (status %d): %s", e.Status, e.Body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// Transport failures are reported as domain.ErrVectorStoreUnavailable.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: chroma at %s: %w", domain.ErrVectorStoreUnavailable, s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
