package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_UpdateIsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_SettersAndClear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("store down")
	bar.SetResultCount(4)
	bar.SetWidth(120)

	assert.Equal(t, StateError, bar.State())
	assert.Equal(t, "store down", bar.Message())
	assert.Equal(t, 4, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    []string
	}{
		{"ready", StateReady, "", 0, []string{"Ready", "quit"}},
		{"searching", StateSearching, "", 0, []string{"Searching..."}},
		{"thinking", StateThinking, "", 0, []string{"Thinking...", "send"}},
		{"chat", StateChat, "", 0, []string{"Chat", "page up"}},
		{"error", StateError, "", 0, []string{"Error"}},
		{"error with message", StateError, "connection failed", 0, []string{"Error: connection failed"}},
		{"help", StateHelp, "", 0, []string{"Help"}},
		{"results", StateResults, "", 5, []string{"5 endpoints", "new search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			view := bar.View()
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
		})
	}
}
