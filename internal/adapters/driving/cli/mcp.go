package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/proxsearch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server communicates over stdio using JSON-RPC and exposes the
proximity_search tool and the proxsearch://settings resource.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "proxsearch": {
        "command": "/path/to/proxsearch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := searchService(ctx)
	if err != nil {
		return err
	}
	settings, err := settingsService()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   svc,
		Settings: settings,
	})
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
