package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView  *search.View
	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI over the file at path. An empty path makes the
// app ask for one.
func NewApp(ports *Ports, path string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	searchView := search.NewView(s, km, ports.Search, path)

	if ports.Settings != nil {
		settings, err := ports.Settings.Get()
		if err != nil {
			logger.Warn("tui: reading settings: %v", err)
		} else {
			searchView.SetCaseInsensitive(settings.CaseInsensitive)
		}
	}

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  searchView,
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app and its searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("proxsearch"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.searchView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			keyStr := msg.String()
			if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) ||
				keymap.Matches(keyStr, a.keymap.Quit) {
				a.currentView = messages.ViewSearch
			}
			return a, nil
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.searchView.View()
}

// viewHelp renders every keybinding, one group per block.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render("Query syntax: word1 word2 [gap]"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
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

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
