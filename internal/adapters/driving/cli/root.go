// Package cli implements the proxsearch command line with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// SearchFactory builds a search service from the current settings.
type SearchFactory func(ctx context.Context) (driving.SearchService, error)

// HostFactory builds a message host that answers through emit.
type HostFactory func(emit driving.Emitter) driving.Host

// Services holds the driving ports the commands run against.
type Services struct {
	Settings driving.SettingsService
	Search   SearchFactory
	Host     HostFactory
}

// Options are the global flags that shape how services are built.
type Options struct {
	// ConfigDir is the config directory; empty means the default location.
	ConfigDir string
	// NoConfig keeps settings in memory and never touches the config file.
	NoConfig bool
}

// Bootstrap builds Services from the global options.
type Bootstrap func(opts Options) (*Services, error)

var (
	services  *Services
	bootstrap Bootstrap

	verbose   bool
	configDir string
	noConfig  bool
)

var rootCmd = &cobra.Command{
	Use:   "proxsearch",
	Short: "Find two words near each other",
	Long: `proxsearch finds every place where one word is followed by another
within a maximum gap, in plain text, Markdown or HTML files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.proxsearch)")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "use default settings and do not read or write config.toml")
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup applies global flags and builds services on first use.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if services != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(Options{ConfigDir: configDir, NoConfig: noConfig})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	services = s
	return nil
}

// searchService builds the search service or explains why it cannot.
func searchService(ctx context.Context) (driving.SearchService, error) {
	if services == nil || services.Search == nil {
		return nil, errors.New("search service not configured")
	}
	svc, err := services.Search(ctx)
	if err != nil {
		return nil, fmt.Errorf("build search service: %w", err)
	}
	return svc, nil
}

// settingsService returns the settings port or an error.
func settingsService() (driving.SettingsService, error) {
	if services == nil || services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings, nil
}
