package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phapdien/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server that exposes stored articles and ingestion to
MCP-compatible assistants.

Tools:
  nearest_articles   articles closest to a piece of text
  ingest_document    ingest a PDF from this machine

Resources:
  phapdien://collections/{collection}/articles
  phapdien://collections/{collection}/articles/{lawNumber}
  phapdien://jobs

Examples:
  # stdio mode (for assistant integration)
  phapdien mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  phapdien mcp serve --port 8080`,
	Args: cobra.NoArgs,
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
	if unitService == nil {
		return errors.New("unit service not configured")
	}

	ports := &mcp.Ports{
		Units:             unitService,
		Ingest:            ingestService,
		DefaultCollection: collectionOrDefault(""),
	}

	server, err := mcp.NewServer(ports)
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
