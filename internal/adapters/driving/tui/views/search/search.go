// Package search provides the match browser view for the TUI.
package search

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
)

// Mode is what the view is waiting for.
type Mode int

const (
	// ModeOpen asks for the file to search.
	ModeOpen Mode = iota
	// ModeQuery accepts "word1 word2 [gap]".
	ModeQuery
	// ModeResults browses the matches.
	ModeResults
)

const (
	openLabel       = "Open: "
	openPlaceholder = "path/to/file"
)

// View is the search view with input, match list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.MatchList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	path            string
	title           string
	caseInsensitive bool
	lastReq         *domain.SearchRequest

	width  int
	height int
	ready  bool
	err    error
	mode   Mode
}

// NewView creates a new search view over the file at path.
// An empty path makes the view ask for one first.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	path string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewMatchList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		path:          path,
		width:         80,
		height:        24,
	}
	if path == "" {
		v.enterOpenMode()
	} else {
		v.enterQueryMode()
	}
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.mode != ModeResults {
		return v.handleInputKey(msg)
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }

	case keymap.Matches(keyStr, v.keymap.Next):
		v.list.MoveDown()
		v.statusbar.SetSelected(v.list.Selected())

	case keymap.Matches(keyStr, v.keymap.Prev):
		v.list.MoveUp()
		v.statusbar.SetSelected(v.list.Selected())

	case keymap.Matches(keyStr, v.keymap.NewSearch):
		v.enterQueryMode()
		v.input.SetValue("")
		return v, v.input.Focus()

	case keymap.Matches(keyStr, v.keymap.Open):
		v.enterOpenMode()
		return v, v.input.Focus()

	case keymap.Matches(keyStr, v.keymap.ToggleCase):
		v.SetCaseInsensitive(!v.caseInsensitive)
		if v.lastReq != nil {
			return v, v.search(*v.lastReq)
		}
	}

	return v, nil
}

// handleInputKey processes keys while the input has focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return v.submit()

	case tea.KeyEsc:
		// Back to the previous matches, if there are any.
		if v.lastReq != nil && v.path != "" {
			v.enterResultsMode()
		}
		return v, nil

	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

// submit acts on the input value for the current mode.
func (v *View) submit() (*View, tea.Cmd) {
	value := strings.TrimSpace(v.input.Value())
	if value == "" {
		return v, nil
	}

	if v.mode == ModeOpen {
		v.path = value
		v.title = ""
		v.enterQueryMode()
		if v.lastReq != nil {
			v.input.SetValue(queryString(*v.lastReq))
			return v, v.search(*v.lastReq)
		}
		v.input.SetValue("")
		return v, nil
	}

	req, err := ParseQuery(value)
	if err != nil {
		v.setError(err)
		return v, nil
	}
	return v, v.search(req)
}

// search marks the view busy and returns the command that runs req.
func (v *View) search(req domain.SearchRequest) tea.Cmd {
	req.Path = v.path
	req.CaseInsensitive = v.caseInsensitive
	req.HasCaseInsensitive = true
	v.lastReq = &req
	v.err = nil
	v.statusbar.SetState(status.StateSearching)

	svc := v.searchService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		result, err := svc.Search(ctx, req)
		return messages.SearchCompleted{Request: req, Result: result, Err: err}
	}
}

// handleSearchCompleted shows the matches or the error.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.statusbar.SetMessage("")
	if msg.Result == nil {
		msg.Result = &domain.SearchResult{}
	}
	v.title = msg.Result.Document.Title
	v.list.SetMatches(msg.Result.Matches)
	v.statusbar.SetResults(msg.Result.Count(), msg.Result.Truncated)
	v.enterResultsMode()
}

// setError shows err and returns focus to the input so it can be fixed.
func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	if v.mode == ModeResults {
		v.mode = ModeQuery
		v.input.SetPrompt(input.QueryLabel, input.QueryPlaceholder)
		v.input.Focus()
	}
}

func (v *View) enterOpenMode() {
	v.mode = ModeOpen
	v.input.SetPrompt(openLabel, openPlaceholder)
	v.input.SetValue(v.path)
	v.input.Focus()
}

func (v *View) enterQueryMode() {
	v.mode = ModeQuery
	v.input.SetPrompt(input.QueryLabel, input.QueryPlaceholder)
	v.input.Focus()
}

func (v *View) enterResultsMode() {
	v.mode = ModeResults
	v.input.SetPrompt(input.QueryLabel, input.QueryPlaceholder)
	if v.lastReq != nil {
		v.input.SetValue(queryString(*v.lastReq))
	}
	v.input.Blur()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetSelected(v.list.Selected())
}

// queryString renders req back into the input syntax.
func queryString(req domain.SearchRequest) string {
	parts := []string{req.Word1, req.Word2}
	if req.HasMaxGap {
		parts = append(parts, strconv.Itoa(req.MaxGap))
	}
	return strings.Join(parts, " ")
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	header := v.styles.Title.Render("proxsearch")
	if v.path != "" {
		source := filepath.Base(v.path)
		if v.title != "" && v.title != source {
			source = v.title + " (" + source + ")"
		}
		header += "  " + v.styles.Muted.Render(source)
	}
	sections = append(sections, header, "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.lastReq != nil {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// SetCaseInsensitive sets the case mode used by the next search.
func (v *View) SetCaseInsensitive(on bool) {
	v.caseInsensitive = on
	v.statusbar.SetCaseInsensitive(on)
}

// CaseInsensitive reports the active case mode.
func (v *View) CaseInsensitive() bool {
	return v.caseInsensitive
}

// Mode returns what the view is waiting for.
func (v *View) Mode() Mode {
	return v.mode
}

// Path returns the file being searched.
func (v *View) Path() string {
	return v.path
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Input returns the current input value.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the input value.
func (v *View) SetInput(value string) {
	v.input.SetValue(value)
}

// Matches returns the current matches.
func (v *View) Matches() []domain.MatchView {
	return v.list.Matches()
}

// SelectedIndex returns the index of the selected match.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Status returns the status bar summary.
func (v *View) Status() string {
	return v.statusbar.Summary()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
