package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

func TestBootstrap_NoConfig(t *testing.T) {
	svcs, err := bootstrap(cli.Options{NoConfig: true})
	require.NoError(t, err)

	cfg, err := svcs.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)

	search, err := svcs.Search(context.Background())
	require.NoError(t, err)

	res, err := search.Search(context.Background(), domain.SearchRequest{
		Text:      "the cat sat by the dog",
		Word1:     "cat",
		Word2:     "dog",
		MaxGap:    20,
		HasMaxGap: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, 4, res.Matches[0].Start)
}

func TestBootstrap_ConfigDir(t *testing.T) {
	dir := t.TempDir()

	svcs, err := bootstrap(cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	require.NoError(t, svcs.Settings.Set("search.max_gap", "3"))

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)

	again, err := bootstrap(cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	value, err := again.Settings.Value("search.max_gap")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
}

func TestBootstrap_HostAnswersSearches(t *testing.T) {
	svcs, err := bootstrap(cli.Options{NoConfig: true})
	require.NoError(t, err)

	var got []domain.Message
	host := svcs.Host(func(msg domain.Message) { got = append(got, msg) })
	require.NoError(t, host.Init(context.Background()))

	host.Handle(context.Background(), domain.RunSearch{
		ID:      "r1",
		Request: domain.SearchRequest{Text: "cat dog", Word1: "cat", Word2: "dog"},
	})

	require.Len(t, got, 2)
	assert.IsType(t, domain.Initialized{}, got[0])
	done, ok := got[1].(domain.SearchComplete)
	require.True(t, ok)
	assert.Equal(t, "r1", done.RequestID)
	assert.Len(t, done.Matches, 1)
}
