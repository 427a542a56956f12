package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/views/endpoint"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	chatView     *chat.View
	searchView   *search.View
	endpointView *endpoint.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	menuView := menu.NewView(s)
	if ports.Catalog != nil {
		if api, ok := ports.Catalog.API(); ok {
			menuView.SetAPI(api)
		}
	}

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menuView,
		chatView:     chat.NewView(s, km, ports.Assistant),
		searchView:   search.NewView(s, km, ports.Search, ports.ResultAction),
		endpointView: endpoint.NewView(s, ports.ResultAction),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.endpointView.WithContext(ctx)
	return a
}

// StartIn selects the view shown first.
func (a *App) StartIn(view messages.ViewType) *App {
	a.currentView = view
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("arielle - OpenAPI Assistant"),
	}
	switch a.currentView {
	case messages.ViewChat:
		cmds = append(cmds, a.chatView.Init())
	case messages.ViewSearch:
		cmds = append(cmds, a.searchView.Init())
	case messages.ViewMenu, messages.ViewEndpoint, messages.ViewHelp:
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.EndpointSelected:
		a.endpointView.SetHit(msg.Hit)
		a.currentView = messages.ViewEndpoint
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// switchTo activates a view, initialising it where needed.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewSearch:
		// Returning from an endpoint keeps the hits on screen.
		if previous != messages.ViewEndpoint {
			a.searchView.Reset()
		}
		return a.searchView.Init()
	case messages.ViewMenu:
		if a.ports.Catalog != nil {
			if api, ok := a.ports.Catalog.API(); ok {
				a.menuView.SetAPI(api)
			}
		}
	case messages.ViewEndpoint, messages.ViewHelp:
	}
	return nil
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewEndpoint:
		a.endpointView, cmd = a.endpointView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewEndpoint:
		return a.endpointView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Chat:
  (type)      Enter a question
  enter       Send question
  pgup/pgdn   Scroll the conversation

Search:
  (type)      Describe what you want to do
  enter       Submit search, then open actions on a result
  n           New search

Endpoint:
  j/k, ↑/↓    Scroll
  c           Copy document

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.endpointView.SetDimensions(width, height)
}
