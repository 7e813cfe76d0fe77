package engine

import (
	"unicode"
	"unicode/utf8"
)

// foldPrefix reports whether s starts with word under simple case folding
// and returns the number of bytes of s that matched.
// Invalid UTF-8 bytes only match the identical byte.
func foldPrefix(s, word string) (int, bool) {
	i, j := 0, 0
	for j < len(word) {
		if i >= len(s) {
			return 0, false
		}

		wr, wsize := utf8.DecodeRuneInString(word[j:])
		tr, tsize := utf8.DecodeRuneInString(s[i:])

		if (wr == utf8.RuneError && wsize == 1) || (tr == utf8.RuneError && tsize == 1) {
			if wsize != tsize || word[j] != s[i] {
				return 0, false
			}
		} else if !equalFoldRune(tr, wr) {
			return 0, false
		}

		i += tsize
		j += wsize
	}
	return i, true
}

// equalFoldRune reports whether a and b are equal under simple folding.
func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}

	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
