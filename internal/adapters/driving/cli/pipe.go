package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/pipe"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

var pipeLazy bool

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Answer JSON-lines search messages on stdin and stdout",
	Long: `Reads one JSON message per line from stdin and writes replies to stdout.

Messages have the form {"id":"…","type":"…","detail":{…}}. Send RUN_SEARCH
with detail {"word1","word2","text"|"path","max_gap",…}; each is answered
with SEARCH_COMPLETE or SEARCH_ERROR carrying the request id.

The engine is initialised at start-up and WASM_INITIALIZED is written when it
is ready. With --lazy nothing happens until a WASM_INIT message arrives;
searches sent earlier are queued and answered in order.`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

func init() {
	pipeCmd.Flags().BoolVar(&pipeLazy, "lazy", false, "wait for WASM_INIT before building the engine")
	rootCmd.AddCommand(pipeCmd)
}

func runPipe(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Host == nil {
		return errors.New("message host not configured")
	}

	ctx := cmd.Context()
	server := pipe.NewServer(cmd.OutOrStdout())
	host := services.Host(server.Emit)

	if !pipeLazy {
		// Failure is reported to the client as WASM_ERROR; keep serving so
		// it can retry with WASM_INIT.
		if err := host.Init(ctx); err != nil {
			logger.Warn("pipe: initialise engine: %v", err)
		}
	}

	err := server.Serve(ctx, host, cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
