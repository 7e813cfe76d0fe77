// Package zerowidth strips invisible format characters that break
// word matching in text copied from web pages.
package zerowidth

import (
	"context"
	"strings"

	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// Name is the registry name of the processor.
const Name = "zerowidth"

// Ensure Processor implements the interface.
var _ driven.TextProcessor = (*Processor)(nil)

// Processor removes U+200B, U+200C, U+200D, U+2060 and U+FEFF.
type Processor struct {
	softHyphen bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithSoftHyphen also strips U+00AD.
func WithSoftHyphen() Option {
	return func(p *Processor) {
		p.softHyphen = true
	}
}

// New creates a zero-width stripper.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process returns text with the invisible characters removed.
func (p *Processor) Process(_ context.Context, text string) (string, error) {
	if strings.IndexFunc(text, p.drop) < 0 {
		return text, nil
	}
	return strings.Map(func(r rune) rune {
		if p.drop(r) {
			return -1
		}
		return r
	}, text), nil
}

func (p *Processor) drop(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u2060', '\uFEFF':
		return true
	case '\u00AD':
		return p.softHyphen
	default:
		return false
	}
}
