package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// uriScheme is the custom URI scheme for proxsearch resources.
const uriScheme = "proxsearch://"

// settingsView is the JSON form of the effective settings.
type settingsView struct {
	MaxGap          int      `json:"max_gap"`
	MaxMatches      int      `json:"max_matches"`
	CaseInsensitive bool     `json:"case_insensitive"`
	WholeWord       bool     `json:"whole_word"`
	GapUnit         string   `json:"gap_unit"`
	Preprocess      []string `json:"preprocess"`
	WatchIntervalMS int64    `json:"watch_interval_ms"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective proximity search settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "settings/{key}",
		Name:        "setting",
		Description: "Effective value of a single config key, e.g. search.max_gap",
		MIMEType:    "text/plain",
	}, s.handleSettingResource)
}

// handleSettingsResource returns all effective settings as JSON.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	view := settingsView{
		MaxGap:          settings.MaxGap,
		MaxMatches:      settings.MaxMatches,
		CaseInsensitive: settings.CaseInsensitive,
		WholeWord:       settings.WholeWord,
		GapUnit:         settings.GapUnit.String(),
		Preprocess:      settings.Preprocess,
		WatchIntervalMS: settings.WatchInterval.Milliseconds(),
	}
	if view.Preprocess == nil {
		view.Preprocess = []string{}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSettingResource returns the effective value of one key.
func (s *Server) handleSettingResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractSettingKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	value, err := s.ports.Settings.Value(key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading setting %s: %w", key, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     value,
		}},
	}, nil
}

// extractSettingKey extracts the key from proxsearch://settings/{key}.
func extractSettingKey(uri string) string {
	const prefix = uriScheme + "settings/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
