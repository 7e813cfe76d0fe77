package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.MatchCount())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilDeps(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_Summary(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Bar)
		want  string
	}{
		{
			name:  "ready",
			setup: func(_ *Bar) {},
			want:  "Ready",
		},
		{
			name:  "ready with message",
			setup: func(b *Bar) { b.SetMessage("Searching notes.md") },
			want:  "Searching notes.md",
		},
		{
			name:  "searching",
			setup: func(b *Bar) { b.SetState(StateSearching) },
			want:  "Searching...",
		},
		{
			name: "error",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("invalid argument")
			},
			want: "Error: invalid argument",
		},
		{
			name:  "error without message",
			setup: func(b *Bar) { b.SetState(StateError) },
			want:  "Error",
		},
		{
			name: "no matches",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResults(0, false)
			},
			want: "0 matches",
		},
		{
			name: "one match",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResults(1, false)
			},
			want: "1 match | match 1 of 1",
		},
		{
			name: "truncated with selection and case",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResults(100, true)
				b.SetSelected(4)
				b.SetCaseInsensitive(true)
			},
			want: "100 matches | truncated | match 5 of 100 | case-insensitive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(300)
			tt.setup(bar)

			assert.Equal(t, tt.want, bar.Summary())
			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_HintsFollowState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "enter: search")

	bar.SetState(StateResults)
	assert.Contains(t, bar.View(), "i: toggle case")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateResults)
	bar.SetResults(3, true)
	bar.SetMessage("x")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 0, bar.MatchCount())
	assert.Equal(t, "Ready", bar.Summary())
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
