// Package vector selects and builds the vector store backend from settings.
package vector

import (
	"fmt"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// NewStore creates the vector store for settings.Kind.
// Remote stores are not contacted until first use.
func NewStore(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: vector store settings are nil", domain.ErrInvalidInput)
	}

	collection := settings.Collection
	if collection == "" {
		collection = domain.DefaultCollection
	}

	switch settings.Kind {
	case domain.VectorStoreChroma:
		return chroma.NewStore(chroma.Config{
			URL:        settings.URL,
			Collection: collection,
			Tenant:     settings.Tenant,
			Database:   settings.Database,
		}), nil

	case domain.VectorStoreQdrant:
		return qdrant.NewStore(qdrant.Config{
			URL:        settings.URL,
			APIKey:     settings.APIKey,
			Collection: collection,
		}), nil

	case domain.VectorStoreSQLite:
		store, err := sqlite.NewStore(settings.DataDir, collection)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return store, nil

	case domain.VectorStoreMemory:
		return memory.NewVectorStore(), nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector store %q", domain.ErrInvalidInput, settings.Kind)
	}
}
