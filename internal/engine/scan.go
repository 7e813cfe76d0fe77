package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// scanner locates word occurrences and measures gaps in one query's text.
type scanner struct {
	text      string
	word2     string
	maxGap    int
	fold      bool
	wholeWord bool
	unit      domain.GapUnit

	next candidate
}

// candidate is the first word2 occurrence at or after searched. distance
// is the raw unit count of text[measuredFrom:start].
type candidate struct {
	valid    bool
	searched int
	found    bool
	start    int
	end      int

	measuredFrom int
	distance     int
}

func newScanner(q domain.Query) *scanner {
	return &scanner{
		text:      q.Text,
		word2:     q.Word2,
		maxGap:    q.MaxGap,
		fold:      q.CaseInsensitive,
		wholeWord: q.WholeWord,
		unit:      q.GapUnit.OrDefault(),
	}
}

// partner finds the nearest word2 occurrence starting at or after from
// whose gap to from does not exceed maxGap. Gaps grow with the partner's
// offset, so only the nearest occurrence needs measuring. The occurrence
// is reused across anchors until an anchor ends past it.
func (s *scanner) partner(from int) (start, end, gap int, ok bool) {
	c := &s.next
	if !c.valid || from < c.searched || (c.found && c.start < from) {
		start, end, found := s.findWord(s.word2, from, len(s.text))
		*c = candidate{
			valid:        true,
			searched:     from,
			found:        found,
			start:        start,
			end:          end,
			measuredFrom: -1,
		}
	}
	if !c.found {
		return 0, 0, 0, false
	}

	gap = s.gap(from)
	if gap > s.maxGap {
		return 0, 0, 0, false
	}
	return c.start, c.end, gap, true
}

// gap returns the gap between from and the current candidate. The raw
// distance is carried forward from the previous anchor when possible.
func (s *scanner) gap(from int) int {
	c := &s.next
	switch {
	case c.measuredFrom < 0 || from < c.measuredFrom:
		c.distance = s.distance(from, c.start)
	case from > c.measuredFrom:
		c.distance = s.shrink(c.measuredFrom, from, c.start, c.distance)
	}
	c.measuredFrom = from

	if s.unit == domain.GapWords {
		return s.wordGap(from, c.start, c.distance)
	}
	return c.distance
}

// distance counts units in text[from:to].
func (s *scanner) distance(from, to int) int {
	between := s.text[from:to]

	switch s.unit {
	case domain.GapBytes:
		return len(between)
	case domain.GapWords:
		return countWords(between)
	default:
		return utf8.RuneCountInString(between)
	}
}

// shrink turns the distance d of text[old:to] into that of text[from:to]
// for old < from <= to.
func (s *scanner) shrink(old, from, to, d int) int {
	switch s.unit {
	case domain.GapBytes:
		return d - (from - old)
	case domain.GapWords:
		d -= countWords(s.text[old:from])
		// A word split at from was counted once in both halves.
		if from < to && s.wordRuneBefore(from) && s.wordRuneAt(from) {
			d++
		}
		return d
	default:
		return d - utf8.RuneCountInString(s.text[old:from])
	}
}

// wordGap drops the word fragments that belong to the anchor or the
// partner from a raw word count, so "cats dog" has no word between
// "cat" and "dog".
func (s *scanner) wordGap(from, to, words int) int {
	if from == to {
		return 0
	}
	if s.wordRuneBefore(from) && s.wordRuneAt(from) {
		words--
	}
	if s.wordRuneBefore(to) && s.wordRuneAt(to) {
		words--
	}
	return max(words, 0)
}

// findWord returns the first occurrence of word starting in [from, last].
// In whole-word mode occurrences embedded in longer words are skipped.
func (s *scanner) findWord(word string, from, last int) (int, int, bool) {
	for from <= last {
		start, end, ok := s.find(word, from, last)
		if !ok {
			return 0, 0, false
		}
		if !s.wholeWord || s.isWholeWord(start, end) {
			return start, end, true
		}
		from = start + 1
	}
	return 0, 0, false
}

// find returns the first occurrence of word starting in [from, last].
// The returned end indexes the original text, so a case-folded match may
// be longer or shorter than word.
func (s *scanner) find(word string, from, last int) (int, int, bool) {
	if from > len(s.text) || last < from {
		return 0, 0, false
	}
	last = min(last, len(s.text))

	if !s.fold {
		window := s.text[from:min(len(s.text), last+len(word))]
		i := strings.Index(window, word)
		if i < 0 {
			return 0, 0, false
		}
		return from + i, from + i + len(word), true
	}

	for i := from; i <= last && i < len(s.text); i++ {
		if !utf8.RuneStart(s.text[i]) {
			continue
		}
		if n, ok := foldPrefix(s.text[i:], word); ok {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

// isWholeWord reports whether text[start:end] is delimited by non-word runes.
func (s *scanner) isWholeWord(start, end int) bool {
	return !s.wordRuneBefore(start) && !s.wordRuneAt(end)
}

// wordRuneBefore reports whether the rune ending at i is a word rune.
func (s *scanner) wordRuneBefore(i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s.text[:i])
	return isWordRune(r)
}

// wordRuneAt reports whether the rune starting at i is a word rune.
func (s *scanner) wordRuneAt(i int) bool {
	if i >= len(s.text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.text[i:])
	return isWordRune(r)
}

// isWordRune reports whether r belongs to a word. Apostrophes and hyphens
// count so that "don't" and "well-known" are single words.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// countWords counts maximal runs of word runes in s.
func countWords(s string) int {
	words := 0
	inWord := false
	for _, r := range s {
		if isWordRune(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return words
}
