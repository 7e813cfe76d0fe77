package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/engine"
)

func newSearchService(t *testing.T) *SearchService {
	t.Helper()
	eng, err := engine.New()
	require.NoError(t, err)
	return NewSearchService(eng, nil, nil)
}

func TestSearchService_Search_Text(t *testing.T) {
	svc := newSearchService(t)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Text:      "the cat sat by the dog",
		Word1:     "cat",
		Word2:     "dog",
		MaxGap:    12,
		HasMaxGap: true,
	})
	require.NoError(t, err)

	require.Equal(t, 1, res.Count())
	m := res.Matches[0]
	assert.Equal(t, domain.Match{Start: 4, Length: 18, Gap: 12}, m.Match)
	assert.Equal(t, "cat sat by the dog", m.Text)
	assert.Equal(t, "the cat sat by the dog", m.Snippet)
	assert.Equal(t, 4, m.SnippetStart)
	assert.False(t, res.Truncated)
	assert.Equal(t, "the cat sat by the dog", res.Text)
	assert.GreaterOrEqual(t, res.Elapsed.Nanoseconds(), int64(0))
}

func TestSearchService_Search_Defaults(t *testing.T) {
	text := "the cat sat by the dog"

	tests := []struct {
		name     string
		defaults func(*domain.Settings)
		req      domain.SearchRequest
		want     int
	}{
		{
			name: "default gap too small",
			req:  domain.SearchRequest{Text: text, Word1: "cat", Word2: "dog"},
			want: 0,
		},
		{
			name:     "configured gap",
			defaults: func(s *domain.Settings) { s.MaxGap = 12 },
			req:      domain.SearchRequest{Text: text, Word1: "cat", Word2: "dog"},
			want:     1,
		},
		{
			name:     "explicit zero gap overrides default",
			defaults: func(s *domain.Settings) { s.MaxGap = 12 },
			req:      domain.SearchRequest{Text: text, Word1: "cat", Word2: "dog", HasMaxGap: true},
			want:     0,
		},
		{
			name:     "default unit words",
			defaults: func(s *domain.Settings) { s.GapUnit = domain.GapWords; s.MaxGap = 3 },
			req:      domain.SearchRequest{Text: text, Word1: "cat", Word2: "dog"},
			want:     1,
		},
		{
			name:     "default case folding",
			defaults: func(s *domain.Settings) { s.CaseInsensitive = true; s.MaxGap = 12 },
			req:      domain.SearchRequest{Text: "the CAT sat by the Dog", Word1: "cat", Word2: "dog"},
			want:     1,
		},
		{
			name:     "default whole word",
			defaults: func(s *domain.Settings) { s.WholeWord = true },
			req:      domain.SearchRequest{Text: "concat dog", Word1: "cat", Word2: "dog"},
			want:     0,
		},
		{
			name:     "explicit case sensitivity overrides default folding",
			defaults: func(s *domain.Settings) { s.CaseInsensitive = true },
			req:      domain.SearchRequest{Text: "Cat dog", Word1: "cat", Word2: "dog", HasCaseInsensitive: true},
			want:     0,
		},
		{
			name:     "explicit substring matching overrides default whole word",
			defaults: func(s *domain.Settings) { s.WholeWord = true },
			req:      domain.SearchRequest{Text: "concat dog", Word1: "cat", Word2: "dog", HasWholeWord: true},
			want:     1,
		},
		{
			name: "explicit folding without default",
			req: domain.SearchRequest{
				Text: "Cat dog", Word1: "cat", Word2: "dog",
				CaseInsensitive: true, HasCaseInsensitive: true,
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSearchService(t)
			settings := domain.DefaultSettings()
			if tt.defaults != nil {
				tt.defaults(&settings)
			}
			svc.SetDefaults(settings)

			res, err := svc.Search(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Count())
		})
	}
}

func TestSearchService_Search_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  domain.SearchRequest
		want error
	}{
		{"empty word1", domain.SearchRequest{Word2: "dog"}, domain.ErrInvalidArgument},
		{"empty word2", domain.SearchRequest{Word1: "cat"}, domain.ErrInvalidArgument},
		{"negative gap", domain.SearchRequest{Word1: "cat", Word2: "dog", MaxGap: -1, HasMaxGap: true}, domain.ErrInvalidArgument},
		{"unknown unit", domain.SearchRequest{Word1: "cat", Word2: "dog", GapUnit: "lines"}, domain.ErrInvalidArgument},
		{"negative cap", domain.SearchRequest{Word1: "cat", Word2: "dog", MaxMatches: -1}, domain.ErrAllocationFailure},
		{"cap too large", domain.SearchRequest{Word1: "cat", Word2: "dog", MaxMatches: 10001}, domain.ErrAllocationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads := 0
			svc := newSearchService(t)
			svc.loaders = &mockLoaders{LoadFunc: func(*domain.RawDocument) (*domain.Document, error) {
				loads++
				return &domain.Document{}, nil
			}}

			tt.req.Path = "-"
			res, err := svc.Search(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
			assert.Zero(t, loads, "validation happens before loading")
		})
	}
}

func TestSearchService_Search_EmptyText(t *testing.T) {
	res, err := newSearchService(t).Search(context.Background(), domain.SearchRequest{Word1: "cat", Word2: "dog"})
	require.NoError(t, err)
	assert.Zero(t, res.Count())
	assert.NotNil(t, res.Matches)
}

func TestSearchService_Search_Pipeline(t *testing.T) {
	pipeline := &mockPipeline{ProcessFunc: func(text string) (string, error) {
		return strings.Join(strings.Fields(text), " "), nil
	}}
	eng, err := engine.New()
	require.NoError(t, err)
	svc := NewSearchService(eng, nil, pipeline)

	req := domain.SearchRequest{Text: "cat\n\n\n   dog", Word1: "cat", Word2: "dog", MaxGap: 1, HasMaxGap: true}

	res, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, pipeline.calls)
	assert.Equal(t, "cat dog", res.Text)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, "cat dog", res.Matches[0].Text)

	req.Raw = true
	res, err = svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, pipeline.calls, "raw skips the pipeline")
	assert.Zero(t, res.Count())
}

func TestSearchService_Search_PipelineError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewSearchService(&mockEngine{max: 10}, nil, &mockPipeline{
		ProcessFunc: func(string) (string, error) { return "", boom },
	})

	_, err := svc.Search(context.Background(), domain.SearchRequest{Text: "x", Word1: "a", Word2: "b"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "preprocess")
}

func TestSearchService_Search_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("CAT DOG"), 0600))

	svc := newSearchService(t)
	svc.loaders = &mockLoaders{LoadFunc: func(raw *domain.RawDocument) (*domain.Document, error) {
		return &domain.Document{ID: "doc-1", URI: raw.URI, Content: strings.ToLower(string(raw.Content))}, nil
	}}

	res, err := svc.Search(context.Background(), domain.SearchRequest{Path: path, Word1: "cat", Word2: "dog"})
	require.NoError(t, err)

	assert.Equal(t, "doc-1", res.Document.ID)
	assert.Equal(t, path, res.Document.URI)
	assert.Equal(t, 1, res.Count())
}

func TestSearchService_Search_FileWithoutLoaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat dog"), 0600))

	res, err := newSearchService(t).Search(context.Background(), domain.SearchRequest{Path: path, Word1: "cat", Word2: "dog"})
	require.NoError(t, err)
	assert.Equal(t, path, res.Document.URI)
	assert.Equal(t, 1, res.Count())
}

func TestSearchService_Search_MissingFile(t *testing.T) {
	_, err := newSearchService(t).Search(context.Background(), domain.SearchRequest{
		Path:  filepath.Join(t.TempDir(), "missing.txt"),
		Word1: "cat",
		Word2: "dog",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchService_Search_LoaderError(t *testing.T) {
	svc := newSearchService(t)
	svc.SetStdin(strings.NewReader("cat dog"))
	svc.loaders = &mockLoaders{LoadFunc: func(*domain.RawDocument) (*domain.Document, error) {
		return nil, domain.ErrUnsupportedType
	}}

	_, err := svc.Search(context.Background(), domain.SearchRequest{Path: StdinPath, Word1: "cat", Word2: "dog"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestSearchService_Search_Stdin(t *testing.T) {
	svc := newSearchService(t)
	svc.SetStdin(strings.NewReader("a cat and a dog"))

	res, err := svc.Search(context.Background(), domain.SearchRequest{Path: StdinPath, Word1: "cat", Word2: "dog"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())

	svc.SetStdin(nil)
	_, err = svc.Search(context.Background(), domain.SearchRequest{Path: StdinPath, Word1: "cat", Word2: "dog"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchService_Search_CapWithFactory(t *testing.T) {
	svc := newSearchService(t)
	built := 0
	svc.SetEngineFactory(func(n int) (_ driven.ProximityEngine, err error) {
		built++
		return engine.Factory(n)
	})

	req := domain.SearchRequest{Text: "cat dog cat dog cat dog", Word1: "cat", Word2: "dog", MaxMatches: 2}
	for i := 0; i < 2; i++ {
		res, err := svc.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count())
		assert.True(t, res.Truncated)
	}
	assert.Equal(t, 1, built, "engines are cached per cap")
}

func TestSearchService_Search_CapWithoutFactory(t *testing.T) {
	svc := newSearchService(t)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Text: "cat dog cat dog cat dog", Word1: "cat", Word2: "dog", MaxMatches: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
	assert.True(t, res.Truncated)

	res, err = svc.Search(context.Background(), domain.SearchRequest{
		Text: "cat dog cat dog", Word1: "cat", Word2: "dog", MaxMatches: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
	assert.False(t, res.Truncated, "exactly cap matches is not truncated")
}

func TestSearchService_Search_NoEngine(t *testing.T) {
	svc := NewSearchService(nil, nil, nil)
	_, err := svc.Search(context.Background(), domain.SearchRequest{Text: "x", Word1: "a", Word2: "b"})
	assert.ErrorIs(t, err, domain.ErrEngineNotReady)
}

func TestSearchService_Search_EngineError(t *testing.T) {
	eng := &mockEngine{max: 100, SearchFunc: func(domain.Query) (domain.Result, error) {
		return domain.Result{}, domain.ErrInvalidArgument
	}}
	svc := NewSearchService(eng, nil, nil)

	_, err := svc.Search(context.Background(), domain.SearchRequest{Text: "x", Word1: "a", Word2: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	require.Len(t, eng.queries, 1)
	assert.Equal(t, domain.GapChars, eng.queries[0].GapUnit)
	assert.Equal(t, domain.DefaultMaxGap, eng.queries[0].MaxGap)
}

func TestSearchService_Search_DedupesEngineOutput(t *testing.T) {
	eng := &mockEngine{max: 100, SearchFunc: func(domain.Query) (domain.Result, error) {
		return domain.Result{Matches: []domain.Match{
			{Start: 4, Length: 3},
			{Start: 0, Length: 3},
			{Start: 4, Length: 3},
		}}, nil
	}}
	svc := NewSearchService(eng, nil, nil)

	res, err := svc.Search(context.Background(), domain.SearchRequest{Text: "abc abc", Word1: "a", Word2: "c"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count())
	assert.Equal(t, 0, res.Matches[0].Start)
	assert.Equal(t, 4, res.Matches[1].Start)
}

func TestDedupe(t *testing.T) {
	in := []domain.Match{
		{Start: 5, Length: 3},
		{Start: 1, Length: 4},
		{Start: 5, Length: 3, Gap: 1},
		{Start: 1, Length: 2},
	}

	got := dedupe(in)
	assert.Equal(t, []domain.Match{
		{Start: 1, Length: 2},
		{Start: 1, Length: 4},
		{Start: 5, Length: 3},
	}, got)
	assert.Equal(t, 5, in[0].Start, "input is not modified")
	assert.Empty(t, dedupe(nil))
}

func TestSnippetAround(t *testing.T) {
	text := "ééé cat dog"
	m := domain.Match{Start: 7, Length: 7}

	tests := []struct {
		name       string
		radius     int
		want       string
		wantOffset int
	}{
		{"no context", 0, "cat dog", 0},
		{"snaps to rune start", 2, "é cat dog", 3},
		{"whole text", 100, "ééé cat dog", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snippet, offset := snippetAround(text, m, tt.radius)
			assert.Equal(t, tt.want, snippet)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, "cat dog", snippet[offset:offset+m.Length])
		})
	}
}

func TestSearchService_SetSnippetRadius(t *testing.T) {
	svc := newSearchService(t)
	svc.SetSnippetRadius(2)
	svc.SetSnippetRadius(-1)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Text: "the cat dog and more", Word1: "cat", Word2: "dog",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, "e cat dog a", res.Matches[0].Snippet)
}
