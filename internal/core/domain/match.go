package domain

// GapUnit selects how the distance between word1 and word2 is measured.
type GapUnit string

// Available gap units.
const (
	// GapChars counts Unicode code points strictly between the two words.
	GapChars GapUnit = "chars"

	// GapBytes counts bytes strictly between the two words.
	GapBytes GapUnit = "bytes"

	// GapWords counts whole words strictly between the two words. When a
	// query word sits inside a longer word, the rest of that word belongs
	// to the query word and is not counted.
	GapWords GapUnit = "words"
)

// IsValid returns true if the unit is recognised.
// The empty unit is valid and means GapChars.
func (u GapUnit) IsValid() bool {
	switch u {
	case "", GapChars, GapBytes, GapWords:
		return true
	default:
		return false
	}
}

// OrDefault returns GapChars for the empty unit.
func (u GapUnit) OrDefault() GapUnit {
	if u == "" {
		return GapChars
	}
	return u
}

// String returns the string representation.
func (u GapUnit) String() string {
	return string(u.OrDefault())
}

// Query is a single proximity search over a text buffer.
type Query struct {
	// Text is the buffer to scan. Offsets in results index into it.
	Text string

	// Word1 is the anchor word. Must be non-empty.
	Word1 string

	// Word2 is the partner word that must follow Word1. Must be non-empty.
	Word2 string

	// MaxGap is the largest permitted distance between the end of Word1
	// and the start of Word2, in GapUnit. Zero means adjacent.
	MaxGap int

	// CaseInsensitive folds both sides before comparing.
	CaseInsensitive bool

	// WholeWord rejects occurrences embedded in longer words.
	WholeWord bool

	// GapUnit selects the gap measure. Empty means GapChars.
	GapUnit GapUnit
}

// Match is one word1…word2 span.
// Start and Length are byte offsets into the searched text.
type Match struct {
	Start  int `json:"start"`
	Length int `json:"length"`

	// Gap is the measured distance between the two words in the query's unit.
	Gap int `json:"gap"`
}

// End returns the exclusive end offset of the match.
func (m Match) End() int {
	return m.Start + m.Length
}

// Result is the outcome of one engine call.
type Result struct {
	// Matches are ordered by ascending Start.
	Matches []Match

	// Truncated is set when the match cap stopped the scan early.
	Truncated bool
}
