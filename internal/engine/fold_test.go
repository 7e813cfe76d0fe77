package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldPrefix(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		word  string
		n     int
		match bool
	}{
		{"ascii exact", "cat dog", "cat", 3, true},
		{"ascii folded", "CaT dog", "cAt", 3, true},
		{"too short", "ca", "cat", 0, false},
		{"mismatch", "cot", "cat", 0, false},
		{"greek sigma", "ΣΟΦΙΑ", "σοφια", len("ΣΟΦΙΑ"), true},
		{"kelvin sign", "Kelvin", "kelvin", len("Kelvin"), true},
		{"invalid byte same", "a\xffb", "A\xffB", 3, true},
		{"invalid byte differs", "a\xfeb", "a\xffb", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := foldPrefix(tt.s, tt.word)
			assert.Equal(t, tt.match, ok)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestEqualFoldRune(t *testing.T) {
	assert.True(t, equalFoldRune('a', 'A'))
	assert.True(t, equalFoldRune('ß', 'ẞ'))
	assert.False(t, equalFoldRune('a', 'b'))
	assert.False(t, equalFoldRune('1', '!'))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, countWords(""))
	assert.Equal(t, 0, countWords(" ... "))
	assert.Equal(t, 2, countWords(" don't well-known, "))
	assert.Equal(t, 3, countWords("a b c"))
}
