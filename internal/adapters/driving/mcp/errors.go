// Package mcp provides an MCP (Model Context Protocol) server adapter for
// proxsearch. It lets AI assistants run proximity searches over text or
// local files and read the effective search settings.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("mcp: settings service is required")
