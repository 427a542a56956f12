package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
)

func stubTerminal(t *testing.T, tty bool, run func(app *tui.App) error) {
	t.Helper()
	origTTY, origRun := isTerminal, runApp
	isTerminal = func() bool { return tty }
	runApp = run
	t.Cleanup(func() {
		isTerminal, runApp = origTTY, origRun
	})
}

func executeChat(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"chat"}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		chatSearch = false
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestChatCmd_RequiresTerminal(t *testing.T) {
	mocks, cleanup := setupTestMocks()
	defer cleanup()
	stubTerminal(t, false, func(*tui.App) error { return nil })

	_, err := executeChat(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
	assert.Empty(t, mocks.overrides)
}

func TestChatCmd_StartsInChat(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var started messages.ViewType = -1
	stubTerminal(t, true, func(app *tui.App) error {
		started = app.CurrentView()
		return nil
	})

	_, err := executeChat(t)
	require.NoError(t, err)
	assert.Equal(t, messages.ViewChat, started)
}

func TestChatCmd_SearchFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var started messages.ViewType = -1
	stubTerminal(t, true, func(app *tui.App) error {
		started = app.CurrentView()
		return nil
	})

	_, err := executeChat(t, "--search")
	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, started)
}

func TestChatCmd_NoAssistant(t *testing.T) {
	mocks, cleanup := setupTestMocks()
	defer cleanup()
	mocks.noAssist = true
	stubTerminal(t, true, func(*tui.App) error { return nil })

	_, err := executeChat(t)
	assert.ErrorIs(t, err, errNoAssistant)
}

func TestChatCmd_RunError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	stubTerminal(t, true, func(*tui.App) error { return errors.New("no tty") })

	_, err := executeChat(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestChatCmd_RecoversPanic(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	stubTerminal(t, true, func(*tui.App) error { panic("boom") })

	_, err := executeChat(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in chat: boom")
}
