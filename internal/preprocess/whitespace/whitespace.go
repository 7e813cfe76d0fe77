// Package whitespace collapses runs of whitespace so that text flattened
// from markup has single spaces between words.
package whitespace

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Name is the registry name of the processor.
const Name = "whitespace"

// Ensure Processor implements the interface.
var _ driven.TextProcessor = (*Processor)(nil)

// Processor replaces every run of Unicode whitespace with one space.
type Processor struct {
	trim bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithoutTrim keeps a single leading and trailing space.
func WithoutTrim() Option {
	return func(p *Processor) {
		p.trim = false
	}
}

// New creates a whitespace collapser. Trimming is on by default.
func New(opts ...Option) *Processor {
	p := &Processor{trim: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process collapses whitespace runs.
func (p *Processor) Process(_ context.Context, text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			inSpace = true
			i += size
			continue
		}
		if inSpace && (b.Len() > 0 || !p.trim) {
			b.WriteByte(' ')
		}
		inSpace = false
		// Copy source bytes so invalid UTF-8 passes through untouched.
		b.WriteString(text[i : i+size])
		i += size
	}
	if inSpace && !p.trim {
		b.WriteByte(' ')
	}

	return b.String(), nil
}
