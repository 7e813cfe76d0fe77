package mcp

import (
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search runs proximity searches.
	Search driving.SearchService

	// Settings exposes the effective configuration.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
