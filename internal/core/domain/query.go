package domain

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one turn of a conversation.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SearchOptions configures a vector search over indexed endpoints.
type SearchOptions struct {
	// Limit is the number of matches to return (default 5).
	Limit int

	// MinScore drops matches below this similarity (0-1).
	MinScore float64

	// Method restricts matches to one HTTP method when set.
	Method string
}

// SearchHit is one endpoint returned by vector search.
type SearchHit struct {
	ID          string   `json:"id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Document    string   `json:"document"`
	Similarity  float64  `json:"similarity"`
}

// QueryResult is the answer to one retrieval-augmented query.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Model   string   `json:"model,omitempty"`
}

// BatchQueryResult is the outcome of one sub-query in a batch.
// Exactly one of Result and Err is set.
type BatchQueryResult struct {
	Query   string
	Success bool
	Result  *QueryResult
	Err     error
}

// IntentResult pairs an intent with its query result for aggregation.
// Result is nil when the intent produced no answer.
type IntentResult struct {
	Intent string
	Result *QueryResult
}

// IntentFailure pairs an intent with the error it produced.
type IntentFailure struct {
	Intent string
	Err    error
}

// Answer is the assistant's reply to one user turn.
type Answer struct {
	// Text is the synthesised answer.
	Text string `json:"text"`

	// Intents are the sub-queries the question was split into.
	Intents []string `json:"intents"`

	// Warnings lists partial failures, separate from Text. Empty when none.
	Warnings string `json:"warnings,omitempty"`

	// Sources are the endpoint ids used as context.
	Sources []string `json:"sources,omitempty"`
}
