package endpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

type mockActions struct {
	err    error
	copied *domain.SearchHit
}

func (m *mockActions) CopyToClipboard(_ context.Context, hit *domain.SearchHit) error {
	m.copied = hit
	return m.err
}

func longHit(lines int) domain.SearchHit {
	body := make([]string, lines)
	for i := range body {
		body[i] = fmt.Sprintf("line %d", i+1)
	}
	return domain.SearchHit{ID: "listPets", Method: "GET", Path: "/pets", Document: strings.Join(body, "\n"), Similarity: 0.87}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, nil)

	assert.Nil(t, v.Init())
	assert.Nil(t, v.Hit())
	view := v.View()
	assert.Contains(t, view, "Endpoint")
	assert.Contains(t, view, "(No content)")
}

func TestView_SetHit(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 30)
	v.SetHit(domain.SearchHit{Method: "POST", Path: "/pets", Document: "# POST /pets\n\n- Creates a pet", Similarity: 0.5})

	view := v.View()
	assert.Contains(t, view, "POST /pets")
	assert.Contains(t, view, "similarity 0.50")
	assert.Contains(t, view, "Creates a pet")
}

func TestView_Scroll(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 17) // 10 visible lines
	v.SetHit(longHit(30))

	v.Update(key("k"))
	assert.Equal(t, 0, v.ScrollOffset())

	v.Update(key("j"))
	v.Update(key("down"))
	assert.Equal(t, 2, v.ScrollOffset())

	v.Update(key("pgdown"))
	assert.Equal(t, 12, v.ScrollOffset())

	v.Update(key("G"))
	assert.Equal(t, 20, v.ScrollOffset())
	v.Update(key("j"))
	assert.Equal(t, 20, v.ScrollOffset())
	assert.Contains(t, v.View(), "Line 21-30 of 30")

	v.Update(key("g"))
	assert.Equal(t, 0, v.ScrollOffset())
}

func TestView_WrapsLongLines(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(24, 40)
	v.SetHit(domain.SearchHit{Document: strings.Repeat("x", 50)})

	assert.Len(t, v.lines, 3)
}

func TestView_Copy(t *testing.T) {
	actions := &mockActions{}
	v := NewView(nil, actions)
	v.SetDimensions(80, 24)
	v.SetHit(longHit(3))

	v.Update(key("c"))

	require.NotNil(t, actions.copied)
	assert.Equal(t, "listPets", actions.copied.ID)
	assert.Equal(t, "Copied to clipboard", v.Notice())
	assert.Contains(t, v.View(), "Copied to clipboard")

	actions.err = errors.New("no display")
	v.Update(key("c"))
	assert.Equal(t, "Copy: no display", v.Notice())

	v.SetHit(longHit(1))
	assert.Empty(t, v.Notice())
}

func TestView_CopyWithoutService(t *testing.T) {
	v := NewView(nil, nil)
	v.SetHit(longHit(2))

	v.Update(key("c"))

	assert.Equal(t, "Copy not available", v.Notice())
}

func TestView_EscReturnsToSearch(t *testing.T) {
	v := NewView(nil, nil)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())
}
