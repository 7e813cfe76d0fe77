// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// SearchRequested is a command to run a proximity search.
type SearchRequested struct {
	Request domain.SearchRequest
}

// SearchCompleted carries a search result back to the model.
type SearchCompleted struct {
	Request domain.SearchRequest
	Result  *domain.SearchResult
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and match list.
	ViewSearch ViewType = iota
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
