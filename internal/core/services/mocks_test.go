package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
)

// mockEngine implements driven.ProximityEngine for testing.
type mockEngine struct {
	SearchFunc func(q domain.Query) (domain.Result, error)
	max        int
	queries    []domain.Query
}

func (m *mockEngine) Search(q domain.Query) (domain.Result, error) {
	m.queries = append(m.queries, q)
	if m.SearchFunc != nil {
		return m.SearchFunc(q)
	}
	return domain.Result{}, nil
}

func (m *mockEngine) MaxMatches() int { return m.max }

// mockPipeline implements driven.TextPipeline for testing.
type mockPipeline struct {
	ProcessFunc func(text string) (string, error)
	calls       int
}

func (m *mockPipeline) Process(_ context.Context, text string) (string, error) {
	m.calls++
	if m.ProcessFunc != nil {
		return m.ProcessFunc(text)
	}
	return text, nil
}

// mockLoaders implements driven.LoaderRegistry for testing.
type mockLoaders struct {
	LoadFunc func(raw *domain.RawDocument) (*domain.Document, error)
}

func (m *mockLoaders) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(raw)
	}
	return &domain.Document{URI: raw.URI, Content: string(raw.Content)}, nil
}

func (m *mockLoaders) Register(_ driven.DocumentLoader) {}

func (m *mockLoaders) SupportedMIMETypes() []string { return nil }

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	SearchFunc func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, req)
	}
	return &domain.SearchResult{}, nil
}

// collector records emitted messages.
type collector struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (c *collector) emit(msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) all() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *collector) types() []domain.MessageType {
	msgs := c.all()
	out := make([]domain.MessageType, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type()
	}
	return out
}
