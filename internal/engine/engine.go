package engine

import (
	"fmt"
	"math"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Ensure Engine implements the port.
var (
	_ driven.ProximityEngine = (*Engine)(nil)
	_ driven.EngineFactory   = Factory
)

// MaxMatches is the default match cap.
const MaxMatches = 100

// MaxArenaRecords bounds any single allocation the engine is asked for.
const MaxArenaRecords = 1 << 20

// Engine runs proximity searches with a fixed match cap.
type Engine struct {
	maxMatches int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxMatches sets the match cap.
func WithMaxMatches(n int) Option {
	return func(e *Engine) {
		e.maxMatches = n
	}
}

// New creates an engine. The cap must be between 1 and MaxArenaRecords.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{maxMatches: MaxMatches}
	for _, opt := range opts {
		opt(e)
	}

	if e.maxMatches < 1 || e.maxMatches > MaxArenaRecords {
		return nil, fmt.Errorf("max matches %d: %w", e.maxMatches, domain.ErrAllocationFailure)
	}
	return e, nil
}

// Factory builds an engine with the given cap.
func Factory(maxMatches int) (driven.ProximityEngine, error) {
	e, err := New(WithMaxMatches(maxMatches))
	if err != nil {
		return nil, err
	}
	return e, nil
}

var defaultEngine = &Engine{maxMatches: MaxMatches}

// Search runs q on an engine with the default cap.
func Search(q domain.Query) (domain.Result, error) {
	return defaultEngine.Search(q)
}

// MaxMatches returns the engine's match cap.
func (e *Engine) MaxMatches() int {
	return e.maxMatches
}

// Search runs q and returns at most MaxMatches() matches.
func (e *Engine) Search(q domain.Query) (domain.Result, error) {
	if err := Validate(q); err != nil {
		return domain.Result{}, err
	}

	dst := make([]domain.Match, e.maxMatches)
	n, truncated, err := e.SearchInto(dst, q)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Matches:   dst[:n:n],
		Truncated: truncated,
	}, nil
}

// SearchInto fills a prefix of dst with matches and returns how many were
// written. The effective cap is the smaller of len(dst) and MaxMatches().
// Nothing is written when an error is returned.
func (e *Engine) SearchInto(dst []domain.Match, q domain.Query) (int, bool, error) {
	if err := Validate(q); err != nil {
		return 0, false, err
	}
	if len(dst) == 0 {
		return 0, false, fmt.Errorf("destination has no capacity: %w", domain.ErrAllocationFailure)
	}

	limit := min(len(dst), e.maxMatches)
	n, truncated := e.scan(q, limit, func(i int, m domain.Match) {
		dst[i] = m
	})
	return n, truncated, nil
}

// Validate checks q without scanning.
func Validate(q domain.Query) error {
	switch {
	case q.Word1 == "":
		return fmt.Errorf("word1 is empty: %w", domain.ErrInvalidArgument)
	case q.Word2 == "":
		return fmt.Errorf("word2 is empty: %w", domain.ErrInvalidArgument)
	case q.MaxGap < 0:
		return fmt.Errorf("max gap %d is negative: %w", q.MaxGap, domain.ErrInvalidArgument)
	case !q.GapUnit.IsValid():
		return fmt.Errorf("gap unit %q: %w", q.GapUnit, domain.ErrInvalidArgument)
	case int64(len(q.Text)) > math.MaxInt32:
		return fmt.Errorf("text of %d bytes exceeds record range: %w", len(q.Text), domain.ErrInvalidArgument)
	}
	return nil
}

// scan walks anchors left to right and hands each match to emit with its
// index. It stops at limit and reports whether a further match existed.
func (e *Engine) scan(q domain.Query, limit int, emit func(int, domain.Match)) (int, bool) {
	s := newScanner(q)
	n := 0

	for pos := 0; pos <= len(q.Text); {
		start, end, ok := s.findWord(q.Word1, pos, len(q.Text))
		if !ok {
			break
		}

		if _, pend, gap, found := s.partner(end); found {
			if n == limit {
				return n, true
			}
			emit(n, domain.Match{
				Start:  start,
				Length: pend - start,
				Gap:    gap,
			})
			n++
		}

		// Overlapping anchors are considered too.
		pos = start + 1
	}

	return n, false
}
