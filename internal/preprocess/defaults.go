package preprocess

import (
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/preprocess/whitespace"
	"github.com/custodia-labs/proxsearch/internal/preprocess/zerowidth"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(zerowidth.Name, buildZeroWidth)
	r.Register(whitespace.Name, buildWhitespace)
}

// NewDefaultRegistry returns a registry holding the built-in processors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildZeroWidth creates a zero-width stripper.
// Supported config keys:
//   - soft_hyphen (bool): also strip U+00AD (default: false)
func buildZeroWidth(cfg map[string]any) (driven.TextProcessor, error) {
	var opts []zerowidth.Option
	if getBoolFromConfig(cfg, "soft_hyphen", false) {
		opts = append(opts, zerowidth.WithSoftHyphen())
	}
	return zerowidth.New(opts...), nil
}

// buildWhitespace creates a whitespace collapser.
// Supported config keys:
//   - trim (bool): trim leading and trailing space (default: true)
func buildWhitespace(cfg map[string]any) (driven.TextProcessor, error) {
	var opts []whitespace.Option
	if !getBoolFromConfig(cfg, "trim", true) {
		opts = append(opts, whitespace.WithoutTrim())
	}
	return whitespace.New(opts...), nil
}

func getBoolFromConfig(cfg map[string]any, key string, def bool) bool {
	val, ok := cfg[key]
	if !ok {
		return def
	}
	b, ok := val.(bool)
	if !ok {
		return def
	}
	return b
}
