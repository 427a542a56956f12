package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
// completeFn and chatFn default to fixed replies when nil.
type mockLLMService struct {
	mu         sync.Mutex
	completeFn func(prompt string) (string, error)
	chatFn     func(messages []driven.ChatMessage) (string, error)
	prompts    []string
	chats      [][]driven.ChatMessage
	options    []driven.CompletionOptions
}

func (m *mockLLMService) Complete(_ context.Context, prompt string, opts driven.CompletionOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	m.mu.Unlock()
	if m.completeFn != nil {
		return m.completeFn(prompt)
	}
	return "false", nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	m.mu.Lock()
	m.chats = append(m.chats, append([]driven.ChatMessage(nil), messages...))
	m.options = append(m.options, opts)
	m.mu.Unlock()
	if m.chatFn != nil {
		return m.chatFn(messages)
	}
	return "mock answer", nil
}

func (m *mockLLMService) ProviderName() string { return "mock" }
func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) IsConfigured() bool { return true }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) chatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

// lastUserMessage returns the final message of a chat request.
func lastUserMessage(messages []driven.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	failFor   map[string]error
	dims      int
	calls     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if err := m.failFor[text]; err != nil {
		return nil, err
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return make([]float32, m.Dimensions()), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	mu        sync.Mutex
	matches   []driven.VectorMatch
	queryErr  error
	count     int
	countErr  error
	upsertErr error
	deleteErr error
	upserted  []driven.VectorRecord
	queries   []driven.VectorQuery
	deletes   []map[string]string
}

func (m *mockVectorStore) Upsert(_ context.Context, records []driven.VectorRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, records...)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if q.Limit < len(m.matches) {
		return m.matches[:q.Limit], nil
	}
	return m.matches, nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	return m.count, m.countErr
}

func (m *mockVectorStore) Delete(_ context.Context, filter map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, filter)
	return m.deleteErr
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) upsertedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.upserted))
	for i, r := range m.upserted {
		ids[i] = r.ID
	}
	return ids
}

// mockPromptStore implements driven.PromptStore with short templates.
type mockPromptStore struct {
	templates map[string]string
	loadErr   error
}

var testPrompts = map[string]string{
	driven.PromptIntentClassify:  "classify: %s",
	driven.PromptIntentDecompose: "decompose: %s",
	driven.PromptRetrievalSystem: "system context:\n%s",
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	templates := m.templates
	if templates == nil {
		templates = testPrompts
	}
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return t, nil
}

func (m *mockPromptStore) Reload() {}

// --- Helpers ---

var errBackend = errors.New("backend unavailable")

// testMatches returns two matches with similarities 0.9 and 0.5.
func testMatches() []driven.VectorMatch {
	return []driven.VectorMatch{
		{
			ID:       "listPets",
			Document: "# GET /pets",
			Metadata: map[string]string{
				driven.MetaMethod:      "GET",
				driven.MetaPath:        "/pets",
				driven.MetaOperationID: "listPets",
				driven.MetaTags:        "pets,store",
			},
			Distance: 0.1,
		},
		{
			ID:       "createPet",
			Document: "# POST /pets",
			Metadata: map[string]string{
				driven.MetaMethod: "POST",
				driven.MetaPath:   "/pets",
			},
			Distance: 0.5,
		},
	}
}

// intentLLM answers the classify prompt with multi and the decompose prompt
// with the given intents, and answers chats by echoing the question.
func intentLLM(multi bool, intents ...string) *mockLLMService {
	return &mockLLMService{
		completeFn: func(prompt string) (string, error) {
			if strings.HasPrefix(prompt, "classify: ") {
				return fmt.Sprintf("%t", multi), nil
			}
			lines := make([]string, len(intents))
			for i, in := range intents {
				lines[i] = "- " + in
			}
			return strings.Join(lines, "\n"), nil
		},
		chatFn: func(messages []driven.ChatMessage) (string, error) {
			return "answer to " + lastUserMessage(messages), nil
		},
	}
}
