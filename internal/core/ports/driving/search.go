package driving

import (
	"context"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// SearchService provides proximity search to external actors.
type SearchService interface {
	// Search loads the requested text, preprocesses it and runs the engine.
	// A request with no matches returns an empty result, never an error.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}
