// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Search submits the query in the input.
	Search key.Binding

	// Prev and Next move through the match list.
	Prev key.Binding
	Next key.Binding

	// NewSearch returns focus to the input.
	NewSearch key.Binding

	// ToggleCase flips case-insensitive matching and re-runs the query.
	ToggleCase key.Binding

	// Open asks for another file to search.
	Open key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k", "p"),
			key.WithHelp("↑/k/p", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j", "n"),
			key.WithHelp("↓/j/n", "next"),
		),
		NewSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "new search"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle case"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
	}
}

// ShortHelp returns the hints shown while typing a query.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Back}
}

// ResultsHelp returns the hints shown while browsing matches.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ToggleCase, k.NewSearch, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.NewSearch, k.Open},
		{k.Next, k.Prev, k.ToggleCase},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
