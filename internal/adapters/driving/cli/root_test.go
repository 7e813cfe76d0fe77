package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// mockSearchService records requests and returns a canned result.
type mockSearchService struct {
	mu       sync.Mutex
	requests []domain.SearchRequest
	SearchFn func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.SearchFn != nil {
		return m.SearchFn(ctx, req)
	}
	return &domain.SearchResult{}, nil
}

func (m *mockSearchService) Requests() []domain.SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SearchRequest(nil), m.requests...)
}

// mockSettingsService keeps settings as text.
type mockSettingsService struct {
	values   map[string]string
	settings domain.Settings
	setErr   error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{
		values: map[string]string{
			"search.max_gap":     "10",
			"search.gap_unit":    "chars",
			"watch.interval_ms":  "500",
			"search.max_matches": "100",
		},
		settings: domain.DefaultSettings(),
	}
}

func (m *mockSettingsService) Get() (domain.Settings, error) { return m.settings, nil }

func (m *mockSettingsService) Value(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	return v, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if _, ok := m.values[key]; !ok {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

// mockHost records what the pipe command hands it.
type mockHost struct {
	emit     driving.Emitter
	inits    int
	handled  []domain.Message
	HandleFn func(msg domain.Message)
}

func (m *mockHost) Init(_ context.Context) error {
	m.inits++
	m.emit(domain.Initialized{ID: "init"})
	return nil
}

func (m *mockHost) Handle(_ context.Context, msg domain.Message) {
	m.handled = append(m.handled, msg)
	if m.HandleFn != nil {
		m.HandleFn(msg)
	}
}

func (m *mockHost) State() domain.EngineState { return domain.EngineReady }
func (m *mockHost) Pending() int              { return 0 }

var (
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
	_ driving.Host            = (*mockHost)(nil)
)

// testServices bundles the mocks installed for one test.
type testServices struct {
	search   *mockSearchService
	settings *mockSettingsService
	host     *mockHost
	buildErr error
}

// setupTestServices installs mocks and restores global state afterwards.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		search:   &mockSearchService{},
		settings: newMockSettings(),
		host:     &mockHost{},
	}
	services = &Services{
		Settings: ts.settings,
		Search: func(_ context.Context) (driving.SearchService, error) {
			if ts.buildErr != nil {
				return nil, ts.buildErr
			}
			return ts.search, nil
		},
		Host: func(emit driving.Emitter) driving.Host {
			ts.host.emit = emit
			return ts.host
		},
	}
	t.Cleanup(resetGlobals)
	return ts
}

// resetGlobals clears services, bootstrap and every flag value.
func resetGlobals() {
	services = nil
	bootstrap = nil
	resetFlags(rootCmd)
	logger.SetVerbose(false)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setContext(c *cobra.Command, ctx context.Context) {
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		setContext(sub, ctx)
	}
}

// execute runs the root command with args and stdin, returning all output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), stdin, args...)
}

func executeContext(ctx context.Context, stdin string, args ...string) (string, error) {
	// Cobra only hands the root context to subcommands without one, so a
	// context left over from an earlier run would otherwise stick.
	setContext(rootCmd, ctx)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_Metadata(t *testing.T) {
	assert.Equal(t, "proxsearch", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"search", "watch", "pipe", "tui", "mcp", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_BootstrapReceivesConfigDir(t *testing.T) {
	t.Cleanup(resetGlobals)

	var got Options
	settings := newMockSettings()
	SetBootstrap(func(opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: settings}, nil
	})

	out, err := execute(t, "", "config", "get", "search.max_gap", "--config-dir", "/tmp/proxsearch-test")

	require.NoError(t, err)
	assert.Equal(t, Options{ConfigDir: "/tmp/proxsearch-test"}, got)
	assert.Equal(t, "10\n", out)
}

func TestRoot_BootstrapNoConfig(t *testing.T) {
	t.Cleanup(resetGlobals)

	var got Options
	SetBootstrap(func(opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: newMockSettings()}, nil
	})

	_, err := execute(t, "", "--no-config", "config", "list")

	require.NoError(t, err)
	assert.True(t, got.NoConfig)
	assert.Empty(t, got.ConfigDir)
}

func TestRoot_BootstrapError(t *testing.T) {
	t.Cleanup(resetGlobals)
	SetBootstrap(func(_ Options) (*Services, error) {
		return nil, errors.New("bad config")
	})

	_, err := execute(t, "", "config", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialise: bad config")
}

func TestRoot_VerboseEnablesLogger(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestRoot_NoServices(t *testing.T) {
	t.Cleanup(resetGlobals)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "search", args: []string{"search", "--text", "a b", "a", "b"}, want: "search service not configured"},
		{name: "config", args: []string{"config", "list"}, want: "settings service not configured"},
		{name: "pipe", args: []string{"pipe"}, want: "message host not configured"},
		{name: "mcp", args: []string{"mcp", "serve"}, want: "search service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
