// Package eml provides a DocumentLoader for RFC 822 email messages.
// The searched text is a short header block followed by the body;
// plain text parts are preferred over HTML ones.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/loaders/html"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// headers are copied into the searched text in this order.
var headers = []string{"From", "To", "Date", "Subject"}

// Loader handles EML documents.
type Loader struct{}

// New creates a new EML loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load parses the message and flattens its headers and body.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	body, err := extractBody(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, name := range headers {
		if value := decodeHeader(msg.Header.Get(name)); value != "" {
			fmt.Fprintf(&content, "%s: %s\n", name, value)
		}
	}
	content.WriteString("\n")
	content.WriteString(body)

	title := decodeHeader(msg.Header.Get("Subject"))
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    title,
		MIMEType: raw.MIMEType,
		Content:  strings.TrimSpace(content.String()),
	}, nil
}

// decodeHeader decodes RFC 2047 encoded words, keeping the raw value on failure.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// extractBody returns the text of a message or part body.
func extractBody(contentType, encoding string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipart(r, params["boundary"])
	}

	body, err := io.ReadAll(decodeTransfer(encoding, r))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrInvalidInput, err)
	}

	if mediaType == "text/html" {
		_, text, err := html.ExtractText(bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: html body: %v", domain.ErrInvalidInput, err)
		}
		return text, nil
	}
	return string(body), nil
}

// decodeTransfer undoes base64 and quoted-printable transfer encodings.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// extractMultipart collects text from every part, preferring text/plain.
func extractMultipart(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: multipart: %v", domain.ErrInvalidInput, err)
		}

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "text/plain"
		}
		mediaType, _, parseErr := mime.ParseMediaType(contentType)
		if parseErr != nil {
			mediaType = "application/octet-stream"
		}

		// NextPart already decodes quoted-printable parts.
		text, err := extractBody(contentType, part.Header.Get("Content-Transfer-Encoding"), part)
		part.Close()
		if err != nil || text == "" {
			continue
		}

		switch {
		case mediaType == "text/plain", strings.HasPrefix(mediaType, "multipart/"):
			textParts = append(textParts, text)
		case mediaType == "text/html":
			htmlParts = append(htmlParts, text)
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	return strings.Join(htmlParts, "\n"), nil
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
