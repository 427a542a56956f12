package qdrant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

type fakeQdrant struct {
	mu        sync.Mutex
	exists    bool
	size      int
	apiKeys   []string
	points    []point
	searches  []searchRequest
	deletes   []map[string]any
	dropped   int
	hits      string
	countBody string
}

func (f *fakeQdrant) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.apiKeys = append(f.apiKeys, r.Header.Get("api-key"))

		key := r.Method + " " + r.URL.Path
		switch key {
		case "GET /collections/pets":
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"result":{}}`))
		case "PUT /collections/pets":
			var body struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Cosine", body.Vectors.Distance)
			f.size = body.Vectors.Size
			f.exists = true
			_, _ = w.Write([]byte(`{"result":true}`))
		case "PUT /collections/pets/points":
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			var body struct {
				Points []point `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.points = append(f.points, body.Points...)
			_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
		case "POST /collections/pets/points/search":
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var req searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.searches = append(f.searches, req)
			_, _ = w.Write([]byte(f.hits))
		case "POST /collections/pets/points/count":
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(f.countBody))
		case "POST /collections/pets/points/delete":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.deletes = append(f.deletes, body)
			_, _ = w.Write([]byte(`{"result":{}}`))
		case "DELETE /collections/pets":
			f.dropped++
			f.exists = false
			_, _ = w.Write([]byte(`{"result":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestStore(t *testing.T) (*Store, *fakeQdrant) {
	t.Helper()
	fake := &fakeQdrant{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)
	return NewStore(Config{URL: server.URL, APIKey: "secret", Collection: "pets"}), fake
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(Config{})
	assert.Equal(t, domain.DefaultQdrantURL, s.baseURL)
	assert.Equal(t, domain.DefaultCollection, s.collection)
}

func TestStore_PointID(t *testing.T) {
	s := NewStore(Config{Collection: "pets"})
	id := s.PointID("listPets")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, s.PointID("listPets"))
	assert.NotEqual(t, id, s.PointID("createPet"))
}

func TestStore_Upsert_CreatesCollection(t *testing.T) {
	s, fake := newTestStore(t)

	err := s.Upsert(t.Context(), []driven.VectorRecord{
		{ID: "listPets", Document: "GET /pets", Metadata: map[string]string{driven.MetaPath: "/pets"}, Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)
	require.NoError(t, s.Upsert(t.Context(), []driven.VectorRecord{{ID: "b", Embedding: []float32{0, 1, 0}}}))

	assert.Equal(t, 3, fake.size)
	require.Len(t, fake.points, 2)
	assert.Equal(t, s.PointID("listPets"), fake.points[0].ID)
	assert.Equal(t, "listPets", fake.points[0].Payload[payloadID])
	assert.Equal(t, "GET /pets", fake.points[0].Payload[payloadDocument])
	assert.Equal(t, "/pets", fake.points[0].Payload[driven.MetaPath])
	for _, k := range fake.apiKeys {
		assert.Equal(t, "secret", k)
	}
}

func TestStore_Upsert_RecreatesDroppedCollection(t *testing.T) {
	s, fake := newTestStore(t)
	require.NoError(t, s.Upsert(t.Context(), []driven.VectorRecord{{ID: "a", Embedding: []float32{1, 0}}}))

	// Another client drops the collection.
	fake.mu.Lock()
	fake.exists = false
	fake.mu.Unlock()

	require.NoError(t, s.Upsert(t.Context(), []driven.VectorRecord{{ID: "b", Embedding: []float32{0, 1}}}))
	assert.True(t, fake.exists)
	assert.Equal(t, 2, fake.size)
	require.Len(t, fake.points, 2)
	assert.Equal(t, "b", fake.points[1].Payload[payloadID])
}

func TestStore_Upsert_EmptyID(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Upsert(t.Context(), []driven.VectorRecord{{Embedding: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Query(t *testing.T) {
	s, fake := newTestStore(t)
	fake.exists = true
	fake.hits = `{"result":[{"id":"abc","score":0.9,"payload":{"_id":"listPets","_document":"GET /pets","method":"GET"}}]}`

	matches, err := s.Query(t.Context(), driven.VectorQuery{
		Embedding: []float32{1, 0},
		Limit:     2,
		Filter:    map[string]string{driven.MetaMethod: "GET"},
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "listPets", matches[0].ID)
	assert.Equal(t, "GET /pets", matches[0].Document)
	assert.Equal(t, map[string]string{"method": "GET"}, matches[0].Metadata)
	assert.InDelta(t, 0.1, matches[0].Distance, 1e-9)

	require.Len(t, fake.searches, 1)
	req := fake.searches[0]
	assert.Equal(t, 2, req.Limit)
	assert.True(t, req.WithPayload)
	require.NotNil(t, req.Filter)
	require.Len(t, req.Filter.Must, 1)
	assert.Equal(t, "method", req.Filter.Must[0].Key)
	assert.Equal(t, "GET", req.Filter.Must[0].Match.Value)
}

func TestStore_MissingCollection(t *testing.T) {
	s, _ := newTestStore(t)

	matches, err := s.Query(t.Context(), driven.VectorQuery{Embedding: []float32{1}})
	require.NoError(t, err)
	assert.Empty(t, matches)

	n, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Count(t *testing.T) {
	s, fake := newTestStore(t)
	fake.exists = true
	fake.countBody = `{"result":{"count":7}}`

	n, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestStore_Delete(t *testing.T) {
	s, fake := newTestStore(t)
	fake.exists = true

	require.NoError(t, s.Delete(t.Context(), map[string]string{driven.MetaPath: "/pets"}))
	require.Len(t, fake.deletes, 1)
	assert.Contains(t, fake.deletes[0], "filter")

	require.NoError(t, s.Delete(t.Context(), nil))
	assert.Equal(t, 1, fake.dropped)

	// Dropping a missing collection is not an error.
	require.NoError(t, s.Delete(t.Context(), nil))
}

func TestStore_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewStore(Config{URL: url}).Count(t.Context())
	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestBuildFilter(t *testing.T) {
	assert.Nil(t, buildFilter(nil))

	f := buildFilter(map[string]string{"b": "2", "a": "1"})
	require.Len(t, f.Must, 2)
	assert.Equal(t, "a", f.Must[0].Key)
	assert.Equal(t, "2", f.Must[1].Match.Value)
}
