// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// linesPerMatch is the number of rows one rendered match occupies.
const linesPerMatch = 2

// MatchList displays proximity matches in a navigable list.
type MatchList struct {
	matches  []domain.MatchView
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMatchList creates a new match list component.
func NewMatchList(s *styles.Styles) *MatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MatchList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the match list.
func (r *MatchList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *MatchList) Update(msg tea.Msg) (*MatchList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k", "p":
			r.MoveUp()
		case "down", "j", "n":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of matches around the selection.
func (r *MatchList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No matches")
	}

	visible := (r.height - 2) / linesPerMatch
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.matches) {
		end = len(r.matches)
	}

	lines := make([]string, 0, (end-start)*linesPerMatch+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(r.matches))), "")
	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, &r.matches[i]))
	}

	return strings.Join(lines, "\n")
}

// renderMatch formats one match: a header line and a highlighted snippet.
func (r *MatchList) renderMatch(index int, m *domain.MatchView) string {
	indicator := "  "
	header := fmt.Sprintf("%d. offset %d, length %d, gap %d", index+1, m.Start, m.Length, m.Gap)
	if index == r.selected {
		indicator = "> "
		header = r.styles.Selected.Render(indicator + header)
	} else {
		header = r.styles.Normal.Render(indicator + header)
	}

	return header + "\n    " + r.Highlight(m)
}

// Highlight renders the snippet of m with the matched span styled.
// Newlines in the snippet are flattened so each match stays on one row.
func (r *MatchList) Highlight(m *domain.MatchView) string {
	snippet := m.Snippet
	at := m.SnippetStart
	if snippet == "" {
		snippet = m.Text
		at = 0
	}
	end := at + len(m.Text)
	if at < 0 || end > len(snippet) {
		return r.styles.Match.Render(flatten(m.Text))
	}

	before := clipLeft(flatten(snippet[:at]), r.width/3)
	after := flatten(snippet[end:])

	return r.styles.Muted.Render(before) +
		r.styles.Match.Render(flatten(m.Text)) +
		r.styles.Muted.Render(after)
}

// flatten replaces line breaks and tabs with spaces.
func flatten(s string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case '\n', '\r', '\t':
			return ' '
		}
		return c
	}, s)
}

// clipLeft keeps the last n runes of s, prefixed with an ellipsis when cut.
func clipLeft(s string, n int) string {
	runes := []rune(s)
	if n < 4 || len(runes) <= n {
		return s
	}
	return "…" + string(runes[len(runes)-n+1:])
}

// SetMatches replaces the matches and resets the selection.
func (r *MatchList) SetMatches(matches []domain.MatchView) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *MatchList) Matches() []domain.MatchView {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *MatchList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *MatchList) SetSelected(index int) {
	if index >= 0 && index < len(r.matches) {
		r.selected = index
	}
}

// SelectedMatch returns the selected match, or nil if the list is empty.
func (r *MatchList) SelectedMatch() *domain.MatchView {
	if len(r.matches) == 0 || r.selected < 0 || r.selected >= len(r.matches) {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *MatchList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *MatchList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *MatchList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of matches.
func (r *MatchList) Count() int {
	return len(r.matches)
}
