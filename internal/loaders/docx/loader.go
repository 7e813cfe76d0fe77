// Package docx provides a DocumentLoader for Word (.docx) documents.
// Paragraph text is read from word/document.xml; one paragraph per line.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// MIMEType is the Office Open XML word-processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Loader handles DOCX documents.
type Loader struct{}

// New creates a new DOCX loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load extracts the paragraph text of a DOCX archive.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: word/document.xml missing", domain.ErrInvalidInput)
	}
	content, err := parseDocumentXML(body)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    extractTitle(reader, raw.URI),
		MIMEType: raw.MIMEType,
		Content:  content,
	}, nil
}

// readPart returns the bytes of the named archive member, or nil if absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML joins the runs of each paragraph, one paragraph per line.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: document.xml: %v", domain.ErrInvalidInput, err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, text := range r.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads dc:title from docProps/core.xml or falls back to the filename.
func extractTitle(reader *zip.Reader, uri string) string {
	if content, err := readPart(reader, "docProps/core.xml"); err == nil && content != nil {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
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
