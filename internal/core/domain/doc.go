// Package domain defines the core entities for proxsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Query: one proximity search over a text buffer
//   - Match: a word1…word2 span found by the engine
//   - Document: flattened visible text loaded from a file
//   - Message: the closed set of host protocol messages
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
