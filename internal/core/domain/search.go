package domain

import "time"

// SearchRequest is a proximity search issued by a driving adapter.
// Zero MaxMatches and empty GapUnit are filled from Settings. MaxGap,
// CaseInsensitive and WholeWord are too unless their Has flag is set.
type SearchRequest struct {
	// Text is searched directly when non-empty.
	Text string

	// Path is loaded through the loader registry when Text is empty.
	Path string

	Word1 string
	Word2 string

	// MaxGap is the permitted gap. Negative values are rejected.
	MaxGap int

	// HasMaxGap marks MaxGap as explicitly set.
	HasMaxGap bool

	// MaxMatches caps the number of returned matches. Zero means the default.
	MaxMatches int

	CaseInsensitive    bool
	HasCaseInsensitive bool

	WholeWord    bool
	HasWholeWord bool

	GapUnit GapUnit

	// Raw skips the preprocessing pipeline.
	Raw bool
}

// MatchView is a match hydrated with the text it covers.
type MatchView struct {
	Match

	// Text is the matched span, Text == content[Start:End].
	Text string `json:"text"`

	// Snippet is the span with surrounding context.
	Snippet string `json:"snippet"`

	// SnippetStart is the offset of Text within Snippet.
	SnippetStart int `json:"snippet_start"`
}

// SearchResult is the hydrated outcome of a SearchRequest.
type SearchResult struct {
	// Document is the loaded document (zero when Text was given).
	Document Document `json:"document"`

	// Text is the exact buffer the offsets refer to.
	Text string `json:"-"`

	Matches   []MatchView `json:"matches"`
	Truncated bool        `json:"truncated"`

	// Elapsed is the wall time of the engine call.
	Elapsed time.Duration `json:"elapsed"`
}

// Count returns the number of matches.
func (r *SearchResult) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}
