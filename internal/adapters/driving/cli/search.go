package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/proxsearch/internal/connectors/filesystem"
	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// stdinPath names standard input as a FILE argument.
const stdinPath = "-"

// Colour modes for --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// searchFlags are the query flags shared by search and watch.
type searchFlags struct {
	gap        int
	ignoreCase bool
	wholeWord  bool
	unit       string
	max        int
	raw        bool
	text       string
	json       bool
	color      string
}

var searchOpts searchFlags

var searchCmd = &cobra.Command{
	Use:   "search WORD1 WORD2 [FILE|-]",
	Short: "Find WORD1 followed by WORD2 within a gap",
	Long: `Finds every place where WORD1 is followed by WORD2 with at most --gap
characters (or bytes, or words) between them.

FILE may be plain text, Markdown, HTML, Word (.docx) or email (.eml); tags
and markup are removed before searching. Without FILE, or with "-", standard input is searched.

Examples:
  proxsearch search cat dog notes.txt
  proxsearch search -i --gap 2 --unit words error timeout app.log
  curl -s https://example.com | proxsearch search privacy policy -`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSearch,
}

func init() {
	searchOpts.bind(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

// bind registers the query flags on cmd.
func (f *searchFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.gap, "gap", "g", 0, "maximum gap between the words (default from config)")
	flags.BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "ignore letter case")
	flags.BoolVarP(&f.wholeWord, "whole-word", "w", false, "only match whole words")
	flags.StringVar(&f.unit, "unit", "", "gap unit: chars, bytes or words (default from config)")
	flags.IntVarP(&f.max, "max", "m", 0, "maximum number of matches (default from config)")
	flags.BoolVar(&f.raw, "raw", false, "skip text normalisation")
	flags.StringVar(&f.text, "text", "", "search this text instead of a file")
	flags.BoolVar(&f.json, "json", false, "output results as JSON")
	flags.StringVar(&f.color, "color", colorAuto, "highlight matches: auto, always or never")
}

// request builds a search request from the flags.
// Flags only override the configured defaults when given.
func (f *searchFlags) request(cmd *cobra.Command, word1, word2, path string) domain.SearchRequest {
	req := domain.SearchRequest{
		Word1:           word1,
		Word2:           word2,
		Path:            path,
		MaxMatches:      f.max,
		CaseInsensitive: f.ignoreCase,
		WholeWord:       f.wholeWord,
		GapUnit:         domain.GapUnit(f.unit),
		Raw:             f.raw,
	}
	if f.text != "" {
		req.Text = f.text
		req.Path = ""
	}
	flags := cmd.Flags()
	req.HasMaxGap = flags.Changed("gap")
	req.HasCaseInsensitive = flags.Changed("ignore-case")
	req.HasWholeWord = flags.Changed("whole-word")
	if req.HasMaxGap {
		req.MaxGap = f.gap
	}
	return req
}

func runSearch(cmd *cobra.Command, args []string) error {
	hl, err := newHighlighter(cmd.OutOrStdout(), searchOpts.color)
	if err != nil {
		return err
	}

	path := stdinPath
	if len(args) == 3 {
		path = filesystem.ResolvePath(args[2])
	} else if searchOpts.text == "" && isTerminal(cmd.InOrStdin()) {
		return errors.New("no input: pass FILE, - or --text")
	}
	req := searchOpts.request(cmd, args[0], args[1], path)

	ctx := cmd.Context()
	svc, err := searchService(ctx)
	if err != nil {
		return err
	}

	res, err := svc.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchOpts.json {
		return outputSearchJSON(cmd, req, res)
	}
	outputSearchText(cmd.OutOrStdout(), req, res, hl)
	return nil
}

// runOnce executes req against a freshly built service.
func runOnce(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	svc, err := searchService(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Search(ctx, req)
}

type jsonMatch struct {
	Start   int    `json:"start"`
	Length  int    `json:"length"`
	Gap     int    `json:"gap"`
	Text    string `json:"text"`
	Snippet string `json:"snippet,omitempty"`
}

type jsonResult struct {
	Source    string      `json:"source,omitempty"`
	Title     string      `json:"title,omitempty"`
	Matches   []jsonMatch `json:"matches"`
	Count     int         `json:"count"`
	Truncated bool        `json:"truncated"`
	ElapsedMS float64     `json:"elapsed_ms"`
}

func outputSearchJSON(cmd *cobra.Command, req domain.SearchRequest, res *domain.SearchResult) error {
	out := jsonResult{
		Source:    req.Path,
		Title:     res.Document.Title,
		Matches:   make([]jsonMatch, len(res.Matches)),
		Count:     res.Count(),
		Truncated: res.Truncated,
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
	}
	for i, m := range res.Matches {
		out.Matches[i] = jsonMatch{Start: m.Start, Length: m.Length, Gap: m.Gap, Text: m.Text, Snippet: m.Snippet}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(w io.Writer, req domain.SearchRequest, res *domain.SearchResult, hl *highlighter) {
	header := "Found " + pluralMatches(res.Count())
	if req.Path != "" && req.Path != stdinPath {
		header += " in " + filepath.Base(req.Path)
	}
	if res.Truncated {
		header += " (truncated)"
	}
	fmt.Fprintln(w, header)

	for i := range res.Matches {
		m := &res.Matches[i]
		fmt.Fprintf(w, "  [%d] offset %d, length %d, gap %d\n", i+1, m.Start, m.Length, m.Gap)
		fmt.Fprintf(w, "      %s\n", hl.snippet(m))
	}
}

func pluralMatches(n int) string {
	if n == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", n)
}

// highlighter styles the matched span inside a snippet.
type highlighter struct {
	style   lipgloss.Style
	enabled bool
}

// newHighlighter resolves the --color mode for out.
func newHighlighter(out io.Writer, mode string) (*highlighter, error) {
	var enabled bool
	switch mode {
	case colorAlways:
		enabled = true
	case colorNever:
		enabled = false
	case colorAuto, "":
		enabled = isTerminal(out) && os.Getenv("NO_COLOR") == ""
	default:
		return nil, fmt.Errorf("%w: --color must be auto, always or never, got %q", domain.ErrInvalidArgument, mode)
	}

	renderer := lipgloss.NewRenderer(out)
	if enabled {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &highlighter{
		style:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		enabled: enabled,
	}, nil
}

// snippet returns m's snippet on one line with the match styled.
func (h *highlighter) snippet(m *domain.MatchView) string {
	snippet, at := m.Snippet, m.SnippetStart
	if snippet == "" || at < 0 || at+len(m.Text) > len(snippet) {
		snippet, at = m.Text, 0
	}
	before := oneLine(snippet[:at])
	match := oneLine(snippet[at : at+len(m.Text)])
	after := oneLine(snippet[at+len(m.Text):])

	if h.enabled {
		match = h.style.Render(match)
	}
	return before + match + after
}

// oneLine replaces line breaks and tabs with spaces.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
