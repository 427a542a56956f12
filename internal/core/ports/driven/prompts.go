package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptIntentClassify asks whether a query holds several intents.
	// The template expects a %s placeholder for the query.
	PromptIntentClassify = "intent_classify"

	// PromptIntentDecompose asks for one intent per "- " line.
	// The template expects a %s placeholder for the query.
	PromptIntentDecompose = "intent_decompose"

	// PromptRetrievalSystem frames retrieved endpoint context.
	// The template expects a %s placeholder for the context block.
	PromptRetrievalSystem = "retrieval_system"
)
