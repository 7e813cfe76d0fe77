package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// SearchInput is the input schema for the proximity_search tool.
type SearchInput struct {
	Text            string `json:"text,omitempty" jsonschema:"text to search; takes precedence over path"`
	Path            string `json:"path,omitempty" jsonschema:"local file to load and search (plain text, Markdown, HTML, .docx or .eml)"`
	Word1           string `json:"word1" jsonschema:"the word that must come first"`
	Word2           string `json:"word2" jsonschema:"the word that must follow word1"`
	MaxGap          *int   `json:"max_gap,omitempty" jsonschema:"largest distance between the words (default from settings)"`
	CaseInsensitive *bool  `json:"case_insensitive,omitempty" jsonschema:"ignore letter case (default from settings)"`
	WholeWord       *bool  `json:"whole_word,omitempty" jsonschema:"only match whole words (default from settings)"`
	GapUnit         string `json:"gap_unit,omitempty" jsonschema:"unit of max_gap: chars, bytes or words"`
	MaxMatches      int    `json:"max_matches,omitempty" jsonschema:"maximum number of matches to return"`
}

// SearchOutput is the output schema for the proximity_search tool.
type SearchOutput struct {
	Matches   []MatchOutput `json:"matches"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
}

// MatchOutput is one match. Offsets are UTF-8 byte offsets into the
// searched text after preprocessing.
type MatchOutput struct {
	Start   int    `json:"start"`
	Length  int    `json:"length"`
	Gap     int    `json:"gap"`
	Text    string `json:"text"`
	Snippet string `json:"snippet,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "proximity_search",
		Description: "Find places where word1 is followed by word2 within a maximum gap",
	}, s.handleSearch)
}

// handleSearch handles the proximity_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := domain.SearchRequest{
		Text:       input.Text,
		Path:       input.Path,
		Word1:      input.Word1,
		Word2:      input.Word2,
		GapUnit:    domain.GapUnit(input.GapUnit),
		MaxMatches: input.MaxMatches,
	}
	if input.MaxGap != nil {
		req.MaxGap = *input.MaxGap
		req.HasMaxGap = true
	}
	if input.CaseInsensitive != nil {
		req.CaseInsensitive = *input.CaseInsensitive
		req.HasCaseInsensitive = true
	}
	if input.WholeWord != nil {
		req.WholeWord = *input.WholeWord
		req.HasWholeWord = true
	}

	res, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Matches:   make([]MatchOutput, len(res.Matches)),
		Count:     res.Count(),
		Truncated: res.Truncated,
	}
	for i, m := range res.Matches {
		output.Matches[i] = MatchOutput{
			Start:   m.Start,
			Length:  m.Length,
			Gap:     m.Gap,
			Text:    m.Text,
			Snippet: m.Snippet,
		}
	}

	return nil, output, nil
}
