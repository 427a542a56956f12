package mcp

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits     []domain.SearchHit
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchHit, error) {
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAssistantService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockAssistantService) History(_ int) []domain.ConversationMessage {
	return nil
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	api     domain.APIInfo
	loaded  bool
	records []domain.ExtractionRecord
	err     error
	lastTag string
}

func (m *mockCatalogService) Load(_ *domain.RunResult) {}

func (m *mockCatalogService) API() (domain.APIInfo, bool) {
	return m.api, m.loaded
}

func (m *mockCatalogService) List(tag string) []domain.ExtractionRecord {
	m.lastTag = tag
	return m.records
}

func (m *mockCatalogService) Get(id string) (*domain.ExtractionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func petRecords() []domain.ExtractionRecord {
	return []domain.ExtractionRecord{
		{
			ID:      "listPets",
			Method:  "GET",
			Path:    "/pets",
			Content: "# GET /pets\n\nList all pets",
			What:    []string{"List all pets"},
			Context: domain.EndpointContext{Tags: []string{"pets"}, OperationID: "listPets"},
		},
		{
			ID:      "deletePet",
			Method:  "DELETE",
			Path:    "/pets/{petId}",
			Content: "# DELETE /pets/{petId}",
			Context: domain.EndpointContext{Tags: []string{"pets"}, Deprecated: true},
		},
	}
}
