// Package markdown provides a DocumentLoader for Markdown documents.
// The source is rendered to HTML and flattened with the html loader,
// so emphasis markers, link targets and image URLs never reach the
// searched text.
package markdown

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/russross/blackfriday/v2"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/loaders/html"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles Markdown documents.
type Loader struct {
	extensions blackfriday.Extensions
}

// New creates a new Markdown loader with the common extensions
// (tables, fenced code, autolinks, strikethrough).
func New() *Loader {
	return &Loader{extensions: blackfriday.CommonExtensions}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load renders the Markdown and extracts its text.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rendered := blackfriday.Run(raw.Content,
		blackfriday.WithExtensions(l.extensions),
		blackfriday.WithRenderer(l.renderer()),
	)

	_, text, err := html.ExtractText(bytes.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    extractTitle(raw.Content, raw.URI),
		MIMEType: raw.MIMEType,
		Content:  text,
	}, nil
}

// renderer leaves Smartypants off so quotes and dashes keep their source form.
func (l *Loader) renderer() blackfriday.Renderer {
	return blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
}

// extractTitle returns the first H1 heading or falls back to the filename.
func extractTitle(content []byte, uri string) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	if uri == "" || uri == "-" {
		return ""
	}
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
