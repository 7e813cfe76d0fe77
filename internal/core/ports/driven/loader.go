package driven

import (
	"context"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// DocumentLoader turns raw file bytes into the visible text that is searched.
// Each loader handles specific MIME types (e.g., HTML, Markdown).
type DocumentLoader interface {
	// SupportedMIMETypes returns the MIME types this loader handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific loaders should return 50-89.
	// Fallback loaders should return 1-9.
	Priority() int

	// Load extracts the document text.
	Load(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// LoaderRegistry selects the appropriate loader for a document.
type LoaderRegistry interface {
	// Load transforms a raw document using the best matching loader.
	Load(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds a loader to the registry.
	Register(loader DocumentLoader)

	// SupportedMIMETypes returns all MIME types that can be loaded.
	SupportedMIMETypes() []string
}
