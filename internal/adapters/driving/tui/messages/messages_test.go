package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// TestSearchRequested tests the SearchRequested message type
func TestSearchRequested(t *testing.T) {
	msg := SearchRequested{Query: "list pets", Options: domain.SearchOptions{Limit: 3, Method: "GET"}}

	assert.Equal(t, "list pets", msg.Query)
	assert.Equal(t, 3, msg.Options.Limit)
	assert.Equal(t, "GET", msg.Options.Method)
}

func TestSearchCompleted_WithHits(t *testing.T) {
	msg := SearchCompleted{Hits: []domain.SearchHit{
		{ID: "listPets", Method: "GET", Path: "/pets", Similarity: 0.8},
		{ID: "createPet", Method: "POST", Path: "/pets", Similarity: 0.6},
	}}

	require.Len(t, msg.Hits, 2)
	assert.Equal(t, "listPets", msg.Hits[0].ID)
	assert.NoError(t, msg.Err)
}

func TestSearchCompleted_WithError(t *testing.T) {
	msg := SearchCompleted{Err: domain.ErrVectorStoreUnavailable}

	assert.Empty(t, msg.Hits)
	assert.ErrorIs(t, msg.Err, domain.ErrVectorStoreUnavailable)
}

func TestAnswerReceived(t *testing.T) {
	t.Run("with answer", func(t *testing.T) {
		msg := AnswerReceived{
			Question: "how do I add a pet?",
			Answer:   &domain.Answer{Text: "POST /pets", Intents: []string{"add a pet"}},
		}
		require.NotNil(t, msg.Answer)
		assert.Equal(t, "POST /pets", msg.Answer.Text)
		assert.Equal(t, []string{"add a pet"}, msg.Answer.Intents)
	})

	t.Run("with error", func(t *testing.T) {
		msg := AnswerReceived{Question: "q", Err: errors.New("llm down")}
		assert.Nil(t, msg.Answer)
		assert.EqualError(t, msg.Err, "llm down")
	})
}

func TestEndpointSelected(t *testing.T) {
	msg := EndpointSelected{Hit: domain.SearchHit{ID: "getPet", Document: "## GET /pets/{petId}"}}
	assert.Equal(t, "getPet", msg.Hit.ID)
	assert.Contains(t, msg.Hit.Document, "/pets/{petId}")
}

func TestViewChanged(t *testing.T) {
	msg := ViewChanged{View: ViewChat}
	assert.Equal(t, ViewChat, msg.View)
}

// TestViewType_String tests all ViewType string representations
func TestViewType_String(t *testing.T) {
	tests := []struct {
		name     string
		view     ViewType
		expected string
	}{
		{"ViewMenu", ViewMenu, "menu"},
		{"ViewChat", ViewChat, "chat"},
		{"ViewSearch", ViewSearch, "search"},
		{"ViewEndpoint", ViewEndpoint, "endpoint"},
		{"ViewHelp", ViewHelp, "help"},
		{"UnknownView", ViewType(99), "unknown"},
		{"NegativeView", ViewType(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestErrorOccurred(t *testing.T) {
	msg := ErrorOccurred{Err: errors.New("boom")}
	assert.EqualError(t, msg.Err, "boom")
}

func TestCopied(t *testing.T) {
	assert.NoError(t, Copied{}.Err)
	assert.Error(t, Copied{Err: errors.New("no clipboard")}.Err)
}

func TestQuit(t *testing.T) {
	var msg any = Quit{}
	_, ok := msg.(Quit)
	assert.True(t, ok)
}
