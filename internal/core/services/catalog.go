package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService keeps the records of the last pipeline run in memory.
// It is safe for concurrent use; watch mode reloads it while MCP reads it.
type CatalogService struct {
	mu      sync.RWMutex
	api     domain.APIInfo
	loaded  bool
	records []domain.ExtractionRecord
	byID    map[string]int
}

// NewCatalogService creates an empty catalog.
func NewCatalogService() *CatalogService {
	return &CatalogService{byID: map[string]int{}}
}

// Load replaces the catalog contents. A nil result empties it.
func (c *CatalogService) Load(result *domain.RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
	c.byID = map[string]int{}
	c.loaded = result != nil
	if result == nil {
		c.api = domain.APIInfo{}
		return
	}

	c.api = result.API
	c.records = make([]domain.ExtractionRecord, len(result.Records))
	copy(c.records, result.Records)
	for i := range c.records {
		c.byID[c.records[i].ID] = i
	}
}

// API returns the loaded document summary.
func (c *CatalogService) API() (domain.APIInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api, c.loaded
}

// List returns records whose primary tag equals tag (case-insensitive),
// or every record when tag is empty.
func (c *CatalogService) List(tag string) []domain.ExtractionRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.ExtractionRecord, 0, len(c.records))
	for i := range c.records {
		if tag != "" && !strings.EqualFold(primaryTag(c.records[i].Context.Tags), tag) {
			continue
		}
		out = append(out, c.records[i])
	}
	return out
}

// Get returns a copy of the record with the given id.
func (c *CatalogService) Get(id string) (*domain.ExtractionRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: endpoint %q", domain.ErrNotFound, id)
	}
	rec := c.records[i]
	return &rec, nil
}

func primaryTag(tags []string) string {
	ep := domain.Endpoint{Tags: tags}
	return ep.PrimaryTag()
}
