package driven

import "github.com/custodia-labs/proxsearch/internal/core/domain"

// ProximityEngine runs a single proximity search.
// Backed by internal/engine. Implementations must be safe for concurrent use.
type ProximityEngine interface {
	// Search scans q.Text and returns at most MaxMatches() matches.
	Search(q domain.Query) (domain.Result, error)

	// MaxMatches returns the match cap.
	MaxMatches() int
}

// EngineFactory builds an engine with the given match cap.
type EngineFactory func(maxMatches int) (ProximityEngine, error)
