package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles HTML documents.
type Loader struct{}

// New creates a new HTML loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load extracts the visible text of an HTML document.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	title, text, err := ExtractText(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    title,
		MIMEType: raw.MIMEType,
		Content:  text,
	}, nil
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// block elements start and end a line.
var block = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Br: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true,
	atom.Tr: true, atom.Ul: true,
}

// ExtractText returns the document title and its visible text.
// Entities are decoded. Block boundaries become newlines, each line is
// trimmed and empty lines are dropped.
func ExtractText(r io.Reader) (title, text string, err error) {
	z := html.NewTokenizer(r)

	var (
		out     textBuilder
		heading strings.Builder
		depth   int
		inTitle bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.Join(strings.Fields(heading.String()), " "), out.String(), nil
			}
			return "", "", z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title && tt == html.StartTagToken:
				inTitle = true
			case skipped[a] && tt == html.StartTagToken:
				depth++
			case block[a]:
				out.newline()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = false
			case skipped[a]:
				if depth > 0 {
					depth--
				}
			case block[a]:
				out.newline()
			}

		case html.TextToken:
			switch {
			case inTitle:
				heading.Write(z.Text())
			case depth == 0:
				out.write(z.Text())
			}
		}
	}
}

// textBuilder joins text nodes, never emitting two newlines in a row.
type textBuilder struct {
	b           strings.Builder
	pendingLine bool
}

func (t *textBuilder) write(p []byte) {
	if len(bytes.TrimSpace(p)) == 0 {
		if t.b.Len() > 0 && !t.pendingLine {
			t.b.WriteByte(' ')
		}
		return
	}
	if t.pendingLine && t.b.Len() > 0 {
		t.b.WriteByte('\n')
	}
	t.pendingLine = false
	t.b.Write(p)
}

func (t *textBuilder) newline() {
	t.pendingLine = true
}

func (t *textBuilder) String() string {
	lines := strings.Split(t.b.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// titleFromURI derives a human-readable title from a file name.
func titleFromURI(uri string) string {
	if uri == "" || uri == "-" {
		return ""
	}
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
