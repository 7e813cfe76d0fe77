// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Bar displays search status and keybinding hints.
type Bar struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	state           State
	message         string
	matchCount      int
	selected        int
	truncated       bool
	caseInsensitive bool
	width           int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// Summary returns the plain status text shown on the left.
func (s *Bar) Summary() string {
	switch s.state {
	case StateSearching:
		return "Searching..."
	case StateError:
		if s.message != "" {
			return "Error: " + s.message
		}
		return "Error"
	case StateResults:
		parts := []string{pluralMatches(s.matchCount)}
		if s.truncated {
			parts = append(parts, "truncated")
		}
		if s.matchCount > 0 {
			parts = append(parts, fmt.Sprintf("match %d of %d", s.selected+1, s.matchCount))
		}
		if s.caseInsensitive {
			parts = append(parts, "case-insensitive")
		}
		if s.message != "" {
			parts = append(parts, s.message)
		}
		return strings.Join(parts, " | ")
	case StateReady:
	}
	if s.message != "" {
		return s.message
	}
	return "Ready"
}

func pluralMatches(n int) string {
	if n == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", n)
}

// renderLeft renders the styled summary.
func (s *Bar) renderLeft() string {
	summary := s.Summary()
	switch s.state {
	case StateError:
		return s.styles.Error.Render(summary)
	case StateResults:
		if s.truncated {
			return s.styles.Warning.Render(summary)
		}
		return s.styles.Normal.Render(summary)
	case StateReady, StateSearching:
	}
	return s.styles.Muted.Render(summary)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResults records the match count and truncation flag.
func (s *Bar) SetResults(count int, truncated bool) {
	s.matchCount = count
	s.truncated = truncated
	s.selected = 0
}

// MatchCount returns the current match count.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// SetSelected records the index of the selected match.
func (s *Bar) SetSelected(index int) {
	s.selected = index
}

// SetCaseInsensitive records the active case mode.
func (s *Bar) SetCaseInsensitive(on bool) {
	s.caseInsensitive = on
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.matchCount = 0
	s.selected = 0
	s.truncated = false
}
