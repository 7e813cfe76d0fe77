// Command proxsearch finds two words near each other in text files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/proxsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/proxsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proxsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/core/services"
	"github.com/custodia-labs/proxsearch/internal/engine"
	"github.com/custodia-labs/proxsearch/internal/loaders"
	"github.com/custodia-labs/proxsearch/internal/logger"
	"github.com/custodia-labs/proxsearch/internal/preprocess"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the config store, engine, loaders and preprocessors.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	store, err := configStore(opts)
	if err != nil {
		return nil, err
	}

	steps := preprocess.NewDefaultRegistry()
	settings := services.NewSettingsService(store)
	settings.SetKnownSteps(steps.Names())

	pipelines := func(names []string) (driven.TextPipeline, error) {
		p, err := steps.BuildPipeline(names)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	build := services.NewSearchBuilder(settings, engine.Factory, loaders.NewDefaultRegistry(), pipelines)

	return &cli.Services{
		Settings: settings,
		Search:   cli.SearchFactory(build),
		Host: func(emit driving.Emitter) driving.Host {
			return services.NewHost(build, emit)
		},
	}, nil
}

func configStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.NoConfig {
		logger.Debug("Using in-memory settings")
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("Config file: %s", store.Path())
	return store, nil
}
