package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/proxsearch/internal/connectors/filesystem"
	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

var (
	watchOpts     searchFlags
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch WORD1 WORD2 FILE",
	Short: "Re-run a search whenever FILE changes",
	Long: `Runs the search once, then again every time FILE is saved.

Bursts of saves are coalesced: at most one search runs per --interval
(default watch.interval_ms from config). Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(3),
	RunE: runWatch,
}

func init() {
	watchOpts.bind(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "minimum time between searches (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	hl, err := newHighlighter(out, watchOpts.color)
	if err != nil {
		return err
	}

	path := filesystem.ResolvePath(args[2])
	req := watchOpts.request(cmd, args[0], args[1], path)
	req.Text = ""
	req.Path = path

	interval, err := resolveWatchInterval()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	search := func() error {
		res, err := runOnce(ctx, req)
		if err != nil {
			return err
		}
		if watchOpts.json {
			return outputSearchJSON(cmd, req, res)
		}
		outputSearchText(out, req, res, hl)
		return nil
	}

	if err := search(); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := filesystem.New(path)
	defer w.Close()

	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", w.Path())
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	// The initial search used the first token.
	limiter.Allow()

	return watchLoop(ctx, changes, limiter, cmd.ErrOrStderr(), search)
}

// resolveWatchInterval returns --interval, or the configured interval.
func resolveWatchInterval() (time.Duration, error) {
	if watchInterval < 0 {
		return 0, fmt.Errorf("%w: --interval must not be negative", domain.ErrInvalidArgument)
	}
	if watchInterval > 0 {
		return watchInterval, nil
	}
	settings, err := settingsService()
	if err != nil {
		return domain.DefaultWatchInterval, nil
	}
	cfg, err := settings.Get()
	if err != nil {
		logger.Warn("reading settings: %v", err)
		return domain.DefaultWatchInterval, nil
	}
	return cfg.WatchInterval, nil
}

// watchLoop runs search for each change, at most once per limiter token.
// Changes that arrive while waiting are folded into the next run. Search
// errors are reported and the loop continues; it returns when ctx is done
// or changes is closed.
func watchLoop(
	ctx context.Context,
	changes <-chan domain.FileChange,
	limiter *rate.Limiter,
	errOut io.Writer,
	search func() error,
) error {
	for {
		var change domain.FileChange
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case change, ok = <-changes:
			if !ok {
				return nil
			}
		}

		if change.Type == domain.ChangeDeleted {
			fmt.Fprintf(errOut, "%s was removed; waiting for it to come back\n", change.Path)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if !drain(changes) {
			return nil
		}

		logger.Debug("%s %s, searching again", change.Path, change.Type)
		if err := search(); err != nil {
			fmt.Fprintf(errOut, "search failed: %v\n", err)
		}
	}
}

// drain discards queued changes. It returns false if changes is closed.
func drain(changes <-chan domain.FileChange) bool {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
