package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Defaults for retrieval-augmented queries.
const (
	DefaultHistoryWindow = 5
	noModelResponse      = "No response from the model"
)

// QueryExecutor answers single queries with retrieved endpoint context and
// runs batches of them concurrently.
type QueryExecutor struct {
	llm          driven.LLMService
	embedder     driven.EmbeddingService
	store        driven.VectorStore
	prompts      driven.PromptStore
	conversation *Conversation
	log          *logger.Logger

	contextResults int
	temperature    float64
	maxTokens      int
}

// NewQueryExecutor creates a query executor. The conversation is read, never written.
func NewQueryExecutor(
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	prompts driven.PromptStore,
	conversation *Conversation,
	log *logger.Logger,
) *QueryExecutor {
	return &QueryExecutor{
		llm:            llm,
		embedder:       embedder,
		store:          store,
		prompts:        prompts,
		conversation:   conversation,
		log:            log,
		contextResults: DefaultContextResults,
		temperature:    domain.DefaultTemperature,
		maxTokens:      domain.DefaultMaxTokens,
	}
}

// SetGeneration overrides temperature and max tokens. Zero values keep the defaults.
func (e *QueryExecutor) SetGeneration(temperature float64, maxTokens int) {
	if temperature > 0 {
		e.temperature = temperature
	}
	if maxTokens > 0 {
		e.maxTokens = maxTokens
	}
}

// ExecuteQuery retrieves context for query and asks the LLM to answer it.
func (e *QueryExecutor) ExecuteQuery(ctx context.Context, query string) (*domain.QueryResult, error) {
	if e.llm == nil {
		return nil, &domain.QueryExecutionError{Query: query, Err: domain.ErrLLMUnavailable}
	}

	block, hits, err := RetrieveContext(ctx, e.embedder, e.store, query, e.contextResults)
	if err != nil {
		return nil, &domain.QueryExecutionError{Query: query, Err: fmt.Errorf("retrieve context: %w", err)}
	}
	e.log.Debug("Retrieved %d context documents for %q", len(hits), query)

	template, err := e.prompts.Load(driven.PromptRetrievalSystem)
	if err != nil {
		return nil, &domain.QueryExecutionError{Query: query, Err: fmt.Errorf("load prompt: %w", err)}
	}

	messages := []driven.ChatMessage{{Role: driven.RoleSystem, Content: fmt.Sprintf(template, block)}}
	if e.conversation != nil {
		for _, m := range e.conversation.Last(DefaultHistoryWindow) {
			messages = append(messages, driven.ChatMessage{Role: string(m.Role), Content: m.Content})
		}
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: query})

	answer, err := e.llm.Chat(ctx, messages, driven.CompletionOptions{
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return nil, &domain.QueryExecutionError{Query: query, Err: err}
	}
	if strings.TrimSpace(answer) == "" {
		answer = noModelResponse
	}

	sources := make([]string, len(hits))
	for i, h := range hits {
		sources[i] = h.ID
	}

	return &domain.QueryResult{
		Answer:  answer,
		Sources: sources,
		Model:   e.llm.ModelName(),
	}, nil
}

// ExecuteBatch runs every query concurrently and waits for all of them.
// The result at index i belongs to queries[i]; one failure never cancels the others.
func (e *QueryExecutor) ExecuteBatch(ctx context.Context, queries []string) []domain.BatchQueryResult {
	results := make([]domain.BatchQueryResult, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results[i] = e.executeSafely(ctx, q)
		}(i, q)
	}
	wg.Wait()

	return results
}

func (e *QueryExecutor) executeSafely(ctx context.Context, query string) (res domain.BatchQueryResult) {
	res.Query = query
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Result = nil
			res.Err = &domain.QueryExecutionError{Query: query, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err := e.ExecuteQuery(ctx, query)
	if err != nil {
		e.log.Debug("Query %q failed: %v", query, err)
		res.Err = err
		return res
	}
	res.Success = true
	res.Result = result
	return res
}
