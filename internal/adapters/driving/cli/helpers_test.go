package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// mockPipelineService records runs and returns a two-endpoint petstore result.
type mockPipelineService struct {
	mu   sync.Mutex
	runs []domain.RunOptions
	err  error

	// noStore mimics a pipeline wired without an embedder.
	noStore bool
}

func (m *mockPipelineService) Run(_ context.Context, opts domain.RunOptions) (*domain.RunResult, error) {
	m.mu.Lock()
	m.runs = append(m.runs, opts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	endpoints := []domain.Endpoint{
		{Method: "GET", Path: "/pets", OperationID: "listPets", Tags: []string{"pets"}},
		{Method: "POST", Path: "/pets", OperationID: "createPet", Tags: []string{"pets"}},
	}
	result := &domain.RunResult{
		RunID:      "run-1",
		API:        domain.APIInfo{Title: "Petstore", Version: "1.0.0", EndpointCount: 2},
		Endpoints:  endpoints,
		Groups:     domain.GroupByTag(endpoints),
		Records:    []domain.ExtractionRecord{{ID: "get-pets"}, {ID: "post-pets"}},
		OutputPath: "/tmp/phase2-output/api-extraction.json",
	}
	switch {
	case opts.Index && m.noStore && opts.IndexOptional:
		result.IndexSkipped = true
	case opts.Index && m.noStore:
		return nil, fmt.Errorf("%w: no vector store is configured", domain.ErrVectorStoreUnavailable)
	case opts.Index:
		result.Index = &domain.IndexStats{Total: 2, Indexed: 2, Duration: 1500 * time.Millisecond}
	}
	return result, nil
}

func (m *mockPipelineService) Runs() []domain.RunOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RunOptions(nil), m.runs...)
}

type mockIndexService struct {
	count   int
	cleared bool
	err     error
}

func (m *mockIndexService) Index(_ context.Context, records []domain.ExtractionRecord) (domain.IndexStats, error) {
	return domain.IndexStats{Total: len(records), Indexed: len(records)}, m.err
}

func (m *mockIndexService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

func (m *mockIndexService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

type mockSearchService struct {
	lastQuery string
	lastOpts  domain.SearchOptions
	hits      []domain.SearchHit
	err       error
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

type mockAssistantService struct {
	questions []string
	answer    *domain.Answer
	err       error
}

func (m *mockAssistantService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{
		Text:    "Use GET /pets to list pets.",
		Intents: []string{question},
		Sources: []string{"get-pets"},
	}, nil
}

func (m *mockAssistantService) History(_ int) []domain.ConversationMessage {
	return nil
}

type mockCatalogService struct {
	loaded *domain.RunResult
}

func (m *mockCatalogService) Load(result *domain.RunResult) {
	m.loaded = result
}

func (m *mockCatalogService) API() (domain.APIInfo, bool) {
	if m.loaded == nil {
		return domain.APIInfo{}, false
	}
	return m.loaded.API, true
}

func (m *mockCatalogService) List(_ string) []domain.ExtractionRecord {
	if m.loaded == nil {
		return nil
	}
	return m.loaded.Records
}

func (m *mockCatalogService) Get(_ string) (*domain.ExtractionRecord, error) {
	return nil, domain.ErrNotFound
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetVectorStore(kind domain.VectorStoreKind, url string) error {
	m.settings.VectorStore.Kind = kind
	m.settings.VectorStore.URL = url
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

// mockWatcher emits one change per entry in events and then closes.
type mockWatcher struct {
	events int
	path   string
}

func (m *mockWatcher) Watch(_ context.Context, path string) (<-chan struct{}, error) {
	m.path = path
	ch := make(chan struct{}, m.events)
	for i := 0; i < m.events; i++ {
		ch <- struct{}{}
	}
	close(ch)
	return ch, nil
}

// testMocks holds the mocks installed by setupTestMocks.
type testMocks struct {
	pipeline  *mockPipelineService
	index     *mockIndexService
	search    *mockSearchService
	assistant *mockAssistantService
	catalog   *mockCatalogService
	settings  *mockSettingsService
	watcher   *mockWatcher
	overrides []Overrides
	closed    int
	warnings  []string
	noAssist  bool
}

// setupTestMocks installs mock services and returns them with a restore function.
func setupTestMocks() (*testMocks, func()) {
	m := &testMocks{
		pipeline:  &mockPipelineService{},
		index:     &mockIndexService{count: 2},
		search:    &mockSearchService{hits: petHits()},
		assistant: &mockAssistantService{},
		catalog:   &mockCatalogService{},
		settings:  newMockSettingsService(),
		watcher:   &mockWatcher{},
	}

	origBuilder := buildServices
	origSettings := settingsService

	settingsService = m.settings
	buildServices = func(_ context.Context, o Overrides) (*Services, error) {
		m.overrides = append(m.overrides, o)
		svc := &Services{
			Pipeline: m.pipeline,
			Index:    m.index,
			Search:   m.search,
			Catalog:  m.catalog,
			Watcher:  m.watcher,
			Warnings: m.warnings,
			Cleanup:  func() { m.closed++ },
		}
		if !m.noAssist {
			svc.Assistant = m.assistant
		}
		return svc, nil
	}

	return m, func() {
		buildServices = origBuilder
		settingsService = origSettings
	}
}

// setupTestServices installs mock services and returns a restore function.
func setupTestServices() func() {
	_, cleanup := setupTestMocks()
	return cleanup
}

func petHits() []domain.SearchHit {
	return []domain.SearchHit{
		{
			ID: "get-pets", Method: "GET", Path: "/pets", OperationID: "listPets",
			Tags: []string{"pets"}, Document: "# GET /pets", Similarity: 0.91,
		},
		{
			ID: "post-pets", Method: "POST", Path: "/pets", OperationID: "createPet",
			Tags: []string{"pets"}, Document: "# POST /pets", Similarity: 0.74,
		},
	}
}

// Ensure the mocks implement the driving ports.
var (
	_ driving.PipelineService  = (*mockPipelineService)(nil)
	_ driving.IndexService     = (*mockIndexService)(nil)
	_ driving.SearchService    = (*mockSearchService)(nil)
	_ driving.AssistantService = (*mockAssistantService)(nil)
	_ driving.CatalogService   = (*mockCatalogService)(nil)
	_ driving.SettingsService  = (*mockSettingsService)(nil)
)
