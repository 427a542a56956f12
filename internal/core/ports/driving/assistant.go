package driving

import (
	"context"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// AssistantService answers free-text questions about the indexed API.
// One AssistantService owns one conversation.
type AssistantService interface {
	// Ask answers a question, splitting compound questions into intents.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// History returns up to the last n conversation messages, oldest first.
	History(n int) []domain.ConversationMessage
}
