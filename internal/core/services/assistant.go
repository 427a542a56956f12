package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// Assistant reply texts.
const (
	IntentPrefix          = "What are all of the ways that I can "
	NoRelevantInfoMessage = "I could not find any relevant information."
	AllIntentsFailed      = "Failed to process any of the intents. Please try again."
	processingFailed      = "I encountered an error processing your request."
)

// AssistantService answers questions about the indexed API for one conversation.
type AssistantService struct {
	store        driven.VectorStore
	detector     *IntentDetector
	executor     *QueryExecutor
	conversation *Conversation
	log          *logger.Logger
}

// NewAssistantService wires an assistant with its own conversation.
func NewAssistantService(
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	prompts driven.PromptStore,
	log *logger.Logger,
) *AssistantService {
	conversation := NewConversation(DefaultConversationCapacity)
	return &AssistantService{
		store:        store,
		detector:     NewIntentDetector(llm, prompts, log),
		executor:     NewQueryExecutor(llm, embedder, store, prompts, conversation, log),
		conversation: conversation,
		log:          log,
	}
}

// SetGeneration overrides the temperature and max tokens used for answers.
func (s *AssistantService) SetGeneration(temperature float64, maxTokens int) {
	s.executor.SetGeneration(temperature, maxTokens)
}

// Ask answers one question. Intent-level failures are reported in
// Answer.Warnings; an error is returned only when the collection is unreachable.
func (s *AssistantService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	s.log.Section("Query")
	s.conversation.Append(domain.RoleUser, question)

	if err := s.checkCollection(ctx); err != nil {
		s.conversation.Append(domain.RoleAssistant, processingFailed)
		return nil, err
	}

	intents := s.detector.DetectIntents(ctx, question)
	prefixed := make([]string, len(intents))
	for i, intent := range intents {
		prefixed[i] = IntentPrefix + intent
	}

	answer := &domain.Answer{Intents: intents}

	if len(prefixed) == 1 {
		s.log.Info("Processing intent: %q", prefixed[0])
		result, err := s.executor.ExecuteQuery(ctx, prefixed[0])
		switch {
		case err != nil:
			s.log.Warn("Query failed: %v", err)
			answer.Text = NoRelevantInfoMessage
			answer.Warnings = HandlePartialFailures(nil, []domain.IntentFailure{{Intent: intents[0], Err: err}})
		case result.Answer == "":
			answer.Text = NoRelevantInfoMessage
		default:
			answer.Text = result.Answer
			answer.Sources = result.Sources
		}
		s.conversation.Append(domain.RoleAssistant, answer.Text)
		return answer, nil
	}

	s.log.Info("Processing %d intents in parallel", len(prefixed))
	batch := s.executor.ExecuteBatch(ctx, prefixed)

	var (
		all       []domain.IntentResult
		successes []domain.IntentResult
		failures  []domain.IntentFailure
	)
	for i, r := range batch {
		item := domain.IntentResult{Intent: intents[i], Result: r.Result}
		all = append(all, item)
		if r.Success {
			successes = append(successes, item)
			answer.Sources = append(answer.Sources, r.Result.Sources...)
			continue
		}
		s.log.Warn("  %d. %q - %v", i+1, r.Query, r.Err)
		failures = append(failures, domain.IntentFailure{Intent: intents[i], Err: r.Err})
	}

	if len(successes) == 0 {
		answer.Text = AllIntentsFailed
	} else {
		answer.Text = Aggregate(all)
	}
	answer.Warnings = HandlePartialFailures(successes, failures)

	s.conversation.Append(domain.RoleAssistant, answer.Text)
	return answer, nil
}

// History returns up to the last n messages of the conversation.
func (s *AssistantService) History(n int) []domain.ConversationMessage {
	return s.conversation.Last(n)
}

// Reset clears the conversation.
func (s *AssistantService) Reset() {
	s.conversation.Reset()
}

func (s *AssistantService) checkCollection(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrVectorStoreUnavailable
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		s.log.Error("Error accessing collection: %v", err)
		return fmt.Errorf("failed to access document database, make sure the API documentation was indexed: %w", err)
	}
	s.log.Info("Collection contains %d documents", count)
	if count == 0 {
		s.log.Warn("Collection is empty. This may affect query results.")
	}
	return nil
}
