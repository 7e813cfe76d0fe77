package mcp

import (
	"context"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	searchFn func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	lastReq  domain.SearchRequest
}

func (m *mockSearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	m.lastReq = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &domain.SearchResult{}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	values   map[string]string
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Value(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

var (
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// newTestServer creates a server wired to fresh mocks.
func newTestServer() (*Server, *mockSearchService, *mockSettingsService) {
	search := &mockSearchService{}
	settings := &mockSettingsService{settings: domain.DefaultSettings()}
	s, err := NewServer(&Ports{Search: search, Settings: settings})
	if err != nil {
		panic(err)
	}
	return s, search, settings
}
