package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"Quit", km.Quit, []string{"q", "ctrl+c"}},
		{"Help", km.Help, []string{"?"}},
		{"Back", km.Back, []string{"esc"}},
		{"Search", km.Search, []string{"enter"}},
		{"Send", km.Send, []string{"enter"}},
		{"Up", km.Up, []string{"up", "k"}},
		{"Down", km.Down, []string{"down", "j"}},
		{"Copy", km.Copy, []string{"c"}},
		{"PageUp", km.PageUp, []string{"pgup", "ctrl+u"}},
		{"PageDown", km.PageDown, []string{"pgdown", "ctrl+d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Key, "binding should have help key")
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Quit, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestChatHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ChatHelp()

	require.Len(t, bindings, 4)
	assert.Equal(t, km.Send, bindings[0])
	assert.Equal(t, km.Back, bindings[3])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 4)
	assert.Len(t, bindings[0], 3) // Up, Down, Select
	assert.Len(t, bindings[1], 4) // Search, Send, Back, Cancel
	assert.Len(t, bindings[2], 3) // PageUp, PageDown, Copy
	assert.Len(t, bindings[3], 2) // Help, Quit
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("pgdown", km.PageDown))

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("down", km.Up))
	assert.False(t, Matches("C", km.Copy))
}
