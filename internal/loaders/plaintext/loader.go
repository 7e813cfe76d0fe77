// Package plaintext provides the fallback DocumentLoader. Content is
// passed through byte for byte so engine offsets index the file itself.
package plaintext

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Loader handles plain text documents.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/x-log",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 5
}

// Load returns the content unchanged apart from a leading UTF-8 BOM.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    extractTitle(raw.URI),
		MIMEType: raw.MIMEType,
		Content:  string(bytes.TrimPrefix(raw.Content, bom)),
	}, nil
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	if uri == "" || uri == "-" {
		return "stdin"
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
