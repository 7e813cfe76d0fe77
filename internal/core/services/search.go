package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSnippetRadius is the context kept either side of a match, in bytes.
const DefaultSnippetRadius = 40

// StdinPath names standard input in SearchRequest.Path.
const StdinPath = "-"

// SearchService loads text, preprocesses it and runs the proximity engine.
type SearchService struct {
	engine   driven.ProximityEngine
	factory  driven.EngineFactory
	loaders  driven.LoaderRegistry
	pipeline driven.TextPipeline
	defaults domain.Settings
	stdin    io.Reader
	radius   int

	// engines caches engines built for non-default caps.
	engines sync.Map
}

// NewSearchService creates a new search service.
// The loaders and pipeline parameters are optional (can be nil): without
// loaders files are read as plain text, without a pipeline text is searched
// as loaded.
func NewSearchService(
	engine driven.ProximityEngine,
	loaders driven.LoaderRegistry,
	pipeline driven.TextPipeline,
) *SearchService {
	return &SearchService{
		engine:   engine,
		loaders:  loaders,
		pipeline: pipeline,
		defaults: domain.DefaultSettings(),
		stdin:    os.Stdin,
		radius:   DefaultSnippetRadius,
	}
}

// SetDefaults sets the values used for fields a request leaves unset.
func (s *SearchService) SetDefaults(settings domain.Settings) {
	s.defaults = settings
}

// SetEngineFactory enables engines with caps other than the default engine's.
func (s *SearchService) SetEngineFactory(factory driven.EngineFactory) {
	s.factory = factory
}

// SetStdin sets the reader used when Path is "-".
func (s *SearchService) SetStdin(r io.Reader) {
	s.stdin = r
}

// SetSnippetRadius sets the context kept around each match.
func (s *SearchService) SetSnippetRadius(radius int) {
	if radius >= 0 {
		s.radius = radius
	}
}

// ValidateRequest checks the parameters of req without touching its text.
func ValidateRequest(req domain.SearchRequest) error {
	switch {
	case req.Word1 == "" || req.Word2 == "":
		return fmt.Errorf("%w: both search words are required", domain.ErrInvalidArgument)
	case req.MaxGap < 0:
		return fmt.Errorf("%w: max gap %d is negative", domain.ErrInvalidArgument, req.MaxGap)
	case !req.GapUnit.IsValid():
		return fmt.Errorf("%w: unknown gap unit %q", domain.ErrInvalidArgument, req.GapUnit)
	case req.MaxMatches < 0 || req.MaxMatches > domain.MaxConfigurableMatch:
		return fmt.Errorf("%w: max matches %d out of range 1..%d",
			domain.ErrAllocationFailure, req.MaxMatches, domain.MaxConfigurableMatch)
	}
	return nil
}

// Search runs one proximity search.
// Offsets in the result refer to result.Text, the preprocessed buffer.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	logger.Section("Proximity Search")

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	q, limit := s.query(req)
	logger.Debug("Words: %q %q, gap: %d %s, case-insensitive: %t, whole-word: %t, cap: %d",
		q.Word1, q.Word2, q.MaxGap, q.GapUnit, q.CaseInsensitive, q.WholeWord, limit)

	doc, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	text := doc.Content
	if !req.Raw && s.pipeline != nil {
		done := logger.Step("preprocess")
		text, err = s.pipeline.Process(ctx, text)
		done()
		if err != nil {
			return nil, fmt.Errorf("preprocess: %w", err)
		}
	}
	q.Text = text
	logger.Debug("Searching %d bytes", len(text))

	eng, err := s.engineFor(limit)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := eng.Search(q)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	matches := dedupe(res.Matches)
	truncated := res.Truncated
	if len(matches) > limit {
		matches = matches[:limit]
		truncated = true
	}
	logger.Info("Found %d matches in %s (truncated: %t)", len(matches), elapsed, truncated)

	return &domain.SearchResult{
		Document:  doc,
		Text:      text,
		Matches:   hydrate(text, matches, s.radius),
		Truncated: truncated,
		Elapsed:   elapsed,
	}, nil
}

// query fills unset request fields from the defaults.
func (s *SearchService) query(req domain.SearchRequest) (domain.Query, int) {
	q := domain.Query{
		Word1:           req.Word1,
		Word2:           req.Word2,
		MaxGap:          req.MaxGap,
		CaseInsensitive: req.CaseInsensitive,
		WholeWord:       req.WholeWord,
		GapUnit:         req.GapUnit,
	}
	if !req.HasMaxGap {
		q.MaxGap = s.defaults.MaxGap
	}
	if !req.HasCaseInsensitive {
		q.CaseInsensitive = s.defaults.CaseInsensitive
	}
	if !req.HasWholeWord {
		q.WholeWord = s.defaults.WholeWord
	}
	if q.GapUnit == "" {
		q.GapUnit = s.defaults.GapUnit.OrDefault()
	}

	limit := req.MaxMatches
	if limit == 0 {
		limit = s.defaults.MaxMatches
	}
	if limit == 0 && s.engine != nil {
		limit = s.engine.MaxMatches()
	}
	return q, limit
}

// resolve returns the document whose content is searched.
func (s *SearchService) resolve(ctx context.Context, req domain.SearchRequest) (domain.Document, error) {
	if req.Text != "" || req.Path == "" {
		return domain.Document{Content: req.Text}, nil
	}

	done := logger.Step("load")
	defer done()

	content, err := s.read(req.Path)
	if err != nil {
		return domain.Document{}, err
	}

	if s.loaders == nil {
		return domain.Document{URI: req.Path, Content: string(content)}, nil
	}

	doc, err := s.loaders.Load(ctx, &domain.RawDocument{URI: req.Path, Content: content})
	if err != nil {
		return domain.Document{}, err
	}
	return *doc, nil
}

func (s *SearchService) read(path string) ([]byte, error) {
	if path == StdinPath {
		if s.stdin == nil {
			return nil, fmt.Errorf("%w: no standard input", domain.ErrInvalidInput)
		}
		content, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// engineFor returns an engine whose cap is at least limit when possible.
// Without a factory the default engine is used and the result trimmed.
func (s *SearchService) engineFor(limit int) (driven.ProximityEngine, error) {
	if s.engine != nil && (s.factory == nil || s.engine.MaxMatches() == limit) {
		return s.engine, nil
	}
	if s.factory == nil {
		return nil, domain.ErrEngineNotReady
	}

	if cached, ok := s.engines.Load(limit); ok {
		return cached.(driven.ProximityEngine), nil
	}
	eng, err := s.factory(limit)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	actual, _ := s.engines.LoadOrStore(limit, eng)
	return actual.(driven.ProximityEngine), nil
}

// dedupe orders matches by offset and drops repeated (start, length) pairs.
func dedupe(matches []domain.Match) []domain.Match {
	if len(matches) < 2 {
		return matches
	}

	out := slices.Clone(matches)
	slices.SortStableFunc(out, func(a, b domain.Match) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.Length - b.Length
	})
	return slices.CompactFunc(out, func(a, b domain.Match) bool {
		return a.Start == b.Start && a.Length == b.Length
	})
}

// hydrate attaches the matched text and a context snippet to each match.
func hydrate(text string, matches []domain.Match, radius int) []domain.MatchView {
	views := make([]domain.MatchView, len(matches))
	for i, m := range matches {
		snippet, offset := snippetAround(text, m, radius)
		views[i] = domain.MatchView{
			Match:        m,
			Text:         text[m.Start:m.End()],
			Snippet:      snippet,
			SnippetStart: offset,
		}
	}
	return views
}

// snippetAround widens m by radius bytes, snapped outwards to rune starts.
func snippetAround(text string, m domain.Match, radius int) (string, int) {
	from := max(m.Start-radius, 0)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}

	to := min(m.End()+radius, len(text))
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	return text[from:to], m.Start - from
}
