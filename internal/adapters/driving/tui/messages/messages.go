// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// QueryChanged is sent when the input text changes.
type QueryChanged struct {
	Query string
}

// SearchRequested is a command to perform a search.
type SearchRequested struct {
	Query   string
	Options domain.SearchOptions
}

// SearchCompleted carries search hits back to the model.
type SearchCompleted struct {
	Hits []domain.SearchHit
	Err  error
}

// QuestionAsked is sent when the user submits a chat question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the assistant's answer back to the chat view.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// EndpointSelected is sent when a search hit is opened.
type EndpointSelected struct {
	Hit domain.SearchHit
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversational assistant.
	ViewChat
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewEndpoint shows the document of one endpoint.
	ViewEndpoint
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	case ViewEndpoint:
		return "endpoint"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Copied is sent after an endpoint document was copied to the clipboard.
type Copied struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}
