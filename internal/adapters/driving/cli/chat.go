package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
)

var chatSearch bool

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runApp runs the TUI. Replaced in tests.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal UI",
	Long: `Launch the interactive terminal interface for conversations about the
indexed API. The assistant keeps the last turns as context for follow-up
questions.

Controls:
  Enter         - Send question / Select
  PgUp/PgDn     - Scroll conversation
  ↑/k, ↓/j      - Navigate search results
  Esc           - Back
  ?             - Toggle help
  Ctrl+C        - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSearch, "search", false, "open the endpoint search view first")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in chat: %v", r)
		}
	}()

	if !isTerminal() {
		return errors.New("chat needs an interactive terminal, use 'arielle ask' instead")
	}

	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.Assistant == nil {
		return errNoAssistant
	}

	ports := tui.NewPorts(svc.Assistant, svc.Search)
	ports.ResultAction = svc.ResultAction
	ports.Catalog = svc.Catalog

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	start := messages.ViewChat
	if chatSearch {
		start = messages.ViewSearch
	}
	app.StartIn(start)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
