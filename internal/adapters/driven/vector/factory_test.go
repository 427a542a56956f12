package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.VectorStoreSettings
		check    func(t *testing.T, store any)
	}{
		{
			name:     "chroma",
			settings: domain.VectorStoreSettings{Kind: domain.VectorStoreChroma, URL: "http://localhost:8000"},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &chroma.Store{}, store)
			},
		},
		{
			name:     "qdrant",
			settings: domain.VectorStoreSettings{Kind: domain.VectorStoreQdrant, APIKey: "k"},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &qdrant.Store{}, store)
			},
		},
		{
			name:     "memory",
			settings: domain.VectorStoreSettings{Kind: domain.VectorStoreMemory},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &memory.VectorStore{}, store)
			},
		},
		{
			name:     "sqlite",
			settings: domain.VectorStoreSettings{Kind: domain.VectorStoreSQLite, DataDir: t.TempDir(), Collection: "pets"},
			check: func(t *testing.T, store any) {
				s, ok := store.(*sqlite.Store)
				require.True(t, ok)
				assert.Equal(t, "pets", s.Collection())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(&tt.settings)
			require.NoError(t, err)
			defer store.Close()
			tt.check(t, store)
		})
	}
}

func TestNewStore_Errors(t *testing.T) {
	_, err := NewStore(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewStore(&domain.VectorStoreSettings{Kind: "pinecone"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
