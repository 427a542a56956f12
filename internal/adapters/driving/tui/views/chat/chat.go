// Package chat provides the conversational assistant view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// ErrNoAssistant indicates that no assistant service was provided.
var ErrNoAssistant = errors.New("assistant service is required")

// historyWindow is how many earlier messages are restored when the view opens.
const historyWindow = 20

// Entry is one rendered turn of the transcript.
type Entry struct {
	Role     domain.Role
	Text     string
	Intents  []string
	Warnings string
}

// View is a scrolling transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PromptInput
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar

	assistant driving.AssistantService
	ctx       context.Context

	transcript []Entry
	pending    bool
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.AssistantService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.AssistantMessage

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewPromptInput(s, "Ask", "Ask a question about the API..."),
		viewport:  viewport.New(80, 16),
		spinner:   sp,
		statusbar: status.NewBar(s, km),
		assistant: assistant,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetState(status.StateChat)
	return v
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init restores earlier conversation turns and starts the cursor blink.
func (v *View) Init() tea.Cmd {
	if len(v.transcript) == 0 && v.assistant != nil {
		for _, m := range v.assistant.History(historyWindow) {
			v.transcript = append(v.transcript, Entry{Role: m.Role, Text: m.Content})
		}
		v.refresh()
	}
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case spinner.TickMsg:
		if !v.pending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.PageUp), keymap.Matches(msg.String(), v.keymap.PageDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case msg.Type == tea.KeyEnter:
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.pending {
			return v, nil
		}
		v.input.Reset()
		v.transcript = append(v.transcript, Entry{Role: domain.RoleUser, Text: question})
		v.pending = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, tea.Batch(v.spinner.Tick, v.ask(question))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the question through the assistant off the UI loop.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.assistant == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoAssistant}
		}
		answer, err := v.assistant.Ask(v.ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if msg.Answer == nil {
		v.statusbar.SetState(status.StateChat)
		v.refresh()
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateChat)
	v.statusbar.SetMessage("")
	v.transcript = append(v.transcript, Entry{
		Role:     domain.RoleAssistant,
		Text:     msg.Answer.Text,
		Intents:  msg.Answer.Intents,
		Warnings: msg.Answer.Warnings,
	})
	v.refresh()
}

func (v *View) setError(err error) {
	v.pending = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	if err != nil {
		v.statusbar.SetMessage(err.Error())
	}
	v.refresh()
}

// refresh re-renders the transcript into the viewport and follows the tail.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 && !v.pending {
		return v.styles.Muted.Render("Ask anything about the loaded API, for example \"how do I create a pet?\"")
	}

	wrap := lipgloss.NewStyle().Width(max(v.viewport.Width-2, 20))
	blocks := make([]string, 0, len(v.transcript)+1)
	for _, e := range v.transcript {
		var b strings.Builder
		if e.Role == domain.RoleUser {
			b.WriteString(v.styles.UserMessage.Render("You"))
		} else {
			b.WriteString(v.styles.AssistantMessage.Render("Arielle"))
			if len(e.Intents) > 1 {
				b.WriteString(v.styles.Muted.Render("  (" + strings.Join(e.Intents, "; ") + ")"))
			}
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(e.Text))
		if e.Warnings != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render(wrap.Render(e.Warnings)))
		}
		blocks = append(blocks, b.String())
	}
	if v.pending {
		blocks = append(blocks, v.spinner.View()+" "+v.styles.Muted.Render("Thinking..."))
	}
	if v.err != nil {
		blocks = append(blocks, v.styles.Error.Render("Error: "+v.err.Error()))
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Chat"),
		"",
		v.styles.Border.Render(v.viewport.View()),
		"",
		v.input.View(),
		"",
		v.statusbar.View(),
	)
}

// SetDimensions sizes the transcript to the space left by the header, input, and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = max(width-2, 20)
	v.viewport.Height = max(height-11, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Transcript returns the rendered turns, oldest first.
func (v *View) Transcript() []Entry {
	return v.transcript
}

// Pending reports whether a question is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Input returns the current question text.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the question text.
func (v *View) SetInput(s string) {
	v.input.SetValue(s)
}
