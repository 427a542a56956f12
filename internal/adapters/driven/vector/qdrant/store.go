// Package qdrant provides a vector store adapter for Qdrant over its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 30 * time.Second

// Payload keys reserved for the record itself. Metadata keys share the payload.
const (
	payloadID       = "_id"
	payloadDocument = "_document"
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant REST address (default: http://localhost:6333).
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (default: openapi_endpoints).
	Collection string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store keeps endpoint documents as points in one Qdrant collection.
// Point IDs are UUIDv5 values derived from the record ID, which Qdrant
// requires; the original ID travels in the payload. The created flag only
// skips the existence check; an upsert that hits a missing collection
// creates it again.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string

	mu      sync.Mutex
	created bool
}

// NewStore creates a Qdrant store. The collection is created on first upsert,
// once the vector size is known.
func NewStore(cfg Config) *Store {
	if cfg.URL == "" {
		cfg.URL = domain.DefaultQdrantURL
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type condition struct {
	Key   string `json:"key"`
	Match struct {
		Value string `json:"value"`
	} `json:"match"`
}

type filterBody struct {
	Must []condition `json:"must"`
}

type searchRequest struct {
	Vector      []float32   `json:"vector"`
	Limit       int         `json:"limit"`
	WithPayload bool        `json:"with_payload"`
	Filter      *filterBody `json:"filter,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

// PointID returns the Qdrant point ID used for a record ID.
func (s *Store) PointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.collection+"/"+id)).String()
}

// ensureCollection creates the collection with cosine distance if it is missing.
func (s *Store) ensureCollection(ctx context.Context, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created {
		return nil
	}

	err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil, nil)
	if isNotFound(err) {
		body := map[string]any{
			"vectors": map[string]any{"size": size, "distance": "Cosine"},
		}
		err = s.do(ctx, http.MethodPut, s.collectionPath(""), body, nil)
	}
	if err != nil {
		return fmt.Errorf("ensure collection %s: %w", s.collection, err)
	}
	s.created = true
	return nil
}

// Upsert inserts or replaces records by ID.
func (s *Store) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, len(records[0].Embedding)); err != nil {
		return err
	}

	points := make([]point, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: record without id", domain.ErrInvalidInput)
		}
		payload := make(map[string]any, len(r.Metadata)+2)
		for k, v := range r.Metadata {
			payload[k] = v
		}
		payload[payloadID] = r.ID
		payload[payloadDocument] = r.Document
		points[i] = point{ID: s.PointID(r.ID), Vector: r.Embedding, Payload: payload}
	}

	body := map[string]any{"points": points}
	err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body, nil)
	if !isNotFound(err) {
		return err
	}

	// The collection was dropped by another client since it was created here.
	s.mu.Lock()
	s.created = false
	s.mu.Unlock()
	if err := s.ensureCollection(ctx, len(records[0].Embedding)); err != nil {
		return err
	}
	return s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body, nil)
}

// Query returns up to q.Limit records closest to q.Embedding, nearest first.
// A missing collection yields no matches.
func (s *Store) Query(ctx context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	var resp searchResponse
	err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), searchRequest{
		Vector:      q.Embedding,
		Limit:       limit,
		WithPayload: true,
		Filter:      buildFilter(q.Filter),
	}, &resp)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	matches := make([]driven.VectorMatch, 0, len(resp.Result))
	for _, hit := range resp.Result {
		m := driven.VectorMatch{
			ID:       fmt.Sprint(hit.ID),
			Metadata: map[string]string{},
			Distance: 1 - hit.Score,
		}
		for k, v := range hit.Payload {
			switch k {
			case payloadID:
				m.ID = fmt.Sprint(v)
			case payloadDocument:
				m.Document = fmt.Sprint(v)
			default:
				m.Metadata[k] = fmt.Sprint(v)
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Count returns the number of points. A missing collection counts as empty.
func (s *Store) Count(ctx context.Context) (int, error) {
	var resp countResponse
	err := s.do(ctx, http.MethodPost, s.collectionPath("/points/count"), map[string]bool{"exact": true}, &resp)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Delete removes points whose payload matches every filter entry.
// An empty filter drops the collection.
func (s *Store) Delete(ctx context.Context, filter map[string]string) error {
	if len(filter) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		err := s.do(ctx, http.MethodDelete, s.collectionPath(""), nil, nil)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("delete collection %s: %w", s.collection, err)
		}
		s.created = false
		return nil
	}

	err := s.do(ctx, http.MethodPost, s.collectionPath("/points/delete?wait=true"),
		map[string]any{"filter": buildFilter(filter)}, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) collectionPath(suffix string) string {
	return "/collections/" + url.PathEscape(s.collection) + suffix
}

func buildFilter(filter map[string]string) *filterBody {
	if len(filter) == 0 {
		return nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := &filterBody{Must: make([]condition, len(keys))}
	for i, k := range keys {
		f.Must[i].Key = k
		f.Must[i].Match.Value = filter[k]
	}
	return f
}

// statusError is a non-2xx response from the server.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant error (status %d): %s", e.Status, e.Body)
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
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: qdrant at %s: %w", domain.ErrVectorStoreUnavailable, s.baseURL, err)
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
