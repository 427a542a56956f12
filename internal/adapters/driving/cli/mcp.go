package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

var (
	mcpPort int
	mcpSpec string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
indexed endpoints and ask questions about the API.

Tools:
  search_endpoints - vector search over indexed endpoints
  ask_api          - assistant answer (needs an LLM provider)
  list_endpoints   - endpoints of the document given with --spec

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead, for MCP Inspector or remote access.

Examples:
  # Stdio mode (default, for desktop assistants)
  arielle mcp serve --spec ./petstore.yaml

  # HTTP mode
  arielle mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "arielle": {
        "command": "/path/to/arielle",
        "args": ["mcp", "serve", "--spec", "/path/to/openapi.yaml"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVarP(&mcpSpec, "spec", "s", "", "OpenAPI document to load for list_endpoints")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	// The catalog is filled without re-indexing; the collection is assumed current.
	if mcpSpec != "" && svc.Catalog != nil {
		result, err := svc.Pipeline.Run(cmd.Context(), domain.RunOptions{Source: mcpSpec})
		if err != nil {
			return fmt.Errorf("load %s: %w", mcpSpec, err)
		}
		svc.Catalog.Load(result)
	}

	ports := &mcp.Ports{
		Search:    svc.Search,
		Assistant: svc.Assistant,
	}
	if mcpSpec != "" {
		ports.Catalog = svc.Catalog
	}

	server, err := mcp.NewServer(ports, svc.Log)
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
