// Package endpoint provides a scrollable view of one endpoint document.
package endpoint

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
)

// View displays the Markdown document of a search hit.
type View struct {
	styles        *styles.Styles
	actionService driving.ResultActionService
	ctx           context.Context

	hit          *domain.SearchHit
	lines        []string
	scrollOffset int
	notice       string

	width  int
	height int
	ready  bool
}

// NewView creates a new endpoint view. actionService may be nil.
func NewView(s *styles.Styles, actionService driving.ResultActionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		actionService: actionService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for clipboard actions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetHit replaces the displayed endpoint and scrolls to the top.
func (v *View) SetHit(hit domain.SearchHit) {
	v.hit = &hit
	v.scrollOffset = 0
	v.notice = ""
	v.wrapContent()
}

// Update handles messages for the endpoint view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "c":
		v.copyDocument()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

func (v *View) copyDocument() {
	switch {
	case v.hit == nil:
		return
	case v.actionService == nil:
		v.notice = "Copy not available"
	default:
		if err := v.actionService.CopyToClipboard(v.ctx, v.hit); err != nil {
			v.notice = "Copy: " + err.Error()
		} else {
			v.notice = "Copied to clipboard"
		}
	}
}

// wrapContent splits the document into lines that fit the view width.
func (v *View) wrapContent() {
	v.lines = nil
	if v.hit == nil || v.hit.Document == "" {
		return
	}

	contentWidth := max(v.width-4, 20)
	for _, line := range strings.Split(v.hit.Document, "\n") {
		for len(line) > contentWidth {
			v.lines = append(v.lines, line[:contentWidth])
			line = line[contentWidth:]
		}
		v.lines = append(v.lines, line)
	}
}

// visibleLines reserves room for the title, separator, and footer.
func (v *View) visibleLines() int {
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the endpoint document.
func (v *View) View() string {
	var b strings.Builder

	title := "Endpoint"
	if v.hit != nil {
		title = v.hit.Method + " " + v.hit.Path
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.hit != nil && v.hit.Similarity > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  similarity %.2f", v.hit.Similarity)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderFooter())
		return b.String()
	}

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for _, line := range v.lines[v.scrollOffset:end] {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage, v.scrollOffset+1, end, len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

func (v *View) renderFooter() string {
	footer := v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [c] copy  [esc] back")
	if v.notice != "" {
		footer = v.styles.Success.Render(v.notice) + "\n" + footer
	}
	return footer
}

// SetDimensions sets the view dimensions and rewraps the document.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Hit returns the displayed endpoint, or nil.
func (v *View) Hit() *domain.SearchHit {
	return v.hit
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Notice returns the last action notice.
func (v *View) Notice() string {
	return v.notice
}
