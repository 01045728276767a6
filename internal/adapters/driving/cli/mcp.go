package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/schema"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can extract bills.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve over HTTP instead.

Tools:
  extract_bill       extract a bill PDF or text file by path
  extract_bill_text  extract bill text passed inline

Examples:
  # Stdio mode (default)
  fatura mcp serve

  # HTTP mode
  fatura mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "fatura": {
        "command": "/path/to/fatura",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	ports := &mcp.Ports{
		Extraction: extractionService,
		Fixups:     fixupService,
		Schema:     schema.Schema(),
	}

	server, err := mcp.NewServer(ports, mcp.WithLogger(logger.L()))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
