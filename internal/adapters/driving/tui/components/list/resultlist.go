// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// ResultList displays search hits in a navigable list.
type ResultList struct {
	hits     []domain.SearchHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No matching endpoints")
	}

	lines := make([]string, 0, len(r.hits)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Endpoints (%d)", len(r.hits))), "")

	// Each hit renders as a title line and a preview line.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.hits))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}

	return strings.Join(lines, "\n")
}

// renderHit formats one hit as "METHOD path  similarity" plus a preview.
func (r *ResultList) renderHit(index int, hit *domain.SearchHit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxPathLen := r.width - 20
	if maxPathLen < 10 {
		maxPathLen = 10
	}
	path := truncate(hit.Path, maxPathLen)
	score := fmt.Sprintf("%.2f", hit.Similarity)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-7s %-*s  %s", indicator, hit.Method, maxPathLen, path, score))
	} else {
		titleLine = r.styles.Normal.Render(indicator) +
			r.styles.Method.Render(fmt.Sprintf("%-7s ", hit.Method)) +
			r.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxPathLen, path)) +
			r.styles.Muted.Render(score)
	}

	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	return titleLine + "\n" + r.styles.Muted.Render("    "+truncate(Preview(hit), maxPreviewLen))
}

// Preview returns the first purpose line of a hit's document, falling back
// to its operation id.
func Preview(hit *domain.SearchHit) string {
	for _, line := range strings.Split(hit.Document, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "- "); ok && rest != "" {
			return rest
		}
	}
	return hit.OperationID
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetHits replaces the hits and resets the selection.
func (r *ResultList) SetHits(hits []domain.SearchHit) {
	r.hits = hits
	r.selected = 0
}

// Hits returns the current hits.
func (r *ResultList) Hits() []domain.SearchHit {
	return r.hits
}

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.hits) {
		r.selected = index
	}
}

// SelectedHit returns the currently selected hit, or nil if none.
func (r *ResultList) SelectedHit() *domain.SearchHit {
	if r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of hits.
func (r *ResultList) Count() int {
	return len(r.hits)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.hits) == 0
}
