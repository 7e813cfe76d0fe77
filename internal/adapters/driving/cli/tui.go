package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/proxsearch/internal/connectors/filesystem"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

var tuiCmd = &cobra.Command{
	Use:   "tui [FILE]",
	Short: "Browse matches interactively",
	Long: `Launch the interactive match browser.

Type "word1 word2 [gap]" and press Enter. Without FILE you are asked for one.

Controls:
  ↓/j/n, ↑/k/p - Next / previous match
  i            - Toggle case-insensitive matching
  /            - New search
  o            - Open another file
  ?            - Help
  q            - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return ErrNotTerminal
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	var path string
	if len(args) == 1 {
		path = filesystem.ResolvePath(args[0])
	}

	ctx := cmd.Context()
	svc, err := searchService(ctx)
	if err != nil {
		return err
	}

	ports := &tui.Ports{Search: svc}
	if services != nil {
		ports.Settings = services.Settings
	}

	app, err := tui.NewApp(ports, path)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
