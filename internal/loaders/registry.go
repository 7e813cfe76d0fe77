package loaders

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/loaders/docx"
	"github.com/custodia-labs/proxsearch/internal/loaders/eml"
	"github.com/custodia-labs/proxsearch/internal/loaders/html"
	"github.com/custodia-labs/proxsearch/internal/loaders/markdown"
	"github.com/custodia-labs/proxsearch/internal/loaders/plaintext"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// extensionTypes covers extensions the system MIME table often lacks.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".mdown":    "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".htm":      "text/html",
	".html":     "text/html",
	".xhtml":    "application/xhtml+xml",
	".docx":     docx.MIMEType,
	".eml":      "message/rfc822",
}

// Registry selects the best loader for each document.
type Registry struct {
	mu       sync.RWMutex
	loaders  map[string][]driven.DocumentLoader
	fallback driven.DocumentLoader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string][]driven.DocumentLoader),
	}
}

// NewDefaultRegistry returns a registry with every built-in loader.
// Plain text is the fallback for unknown text types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(html.New())
	r.Register(markdown.New())
	r.Register(docx.New())
	r.Register(eml.New())

	text := plaintext.New()
	r.Register(text)
	r.SetFallback(text)
	return r
}

// Register adds a loader under each of its MIME types.
// Loaders for the same type are kept in descending priority order.
func (r *Registry) Register(loader driven.DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range loader.SupportedMIMETypes() {
		list := append(r.loaders[mimeType], loader)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.loaders[mimeType] = list
	}
}

// SetFallback sets the loader used for unregistered text/* types.
func (r *Registry) SetFallback(loader driven.DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = loader
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.loaders))
	for t := range r.loaders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Load transforms a raw document using the best matching loader.
// An empty MIMEType is detected from the URI extension, then the content.
func (r *Registry) Load(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := baseType(raw.MIMEType)
	if mimeType == "" {
		mimeType = DetectMIMEType(raw.URI, raw.Content)
	}

	loader, err := r.lookup(mimeType)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading %s as %s (priority %d)", raw.URI, mimeType, loader.Priority())

	withType := *raw
	withType.MIMEType = mimeType

	doc, err := loader.Load(ctx, &withType)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", raw.URI, err)
	}
	return doc, nil
}

func (r *Registry) lookup(mimeType string) (driven.DocumentLoader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if list := r.loaders[mimeType]; len(list) > 0 {
		return list[0], nil
	}
	if r.fallback != nil && strings.HasPrefix(mimeType, "text/") {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
}

// DetectMIMEType guesses a MIME type from the file extension,
// falling back to content sniffing. The result carries no parameters.
func DetectMIMEType(uri string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(uri))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := baseType(mime.TypeByExtension(ext)); t != "" {
			return t
		}
	}
	return baseType(http.DetectContentType(content))
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
