// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents log and query the ledger over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// mcpSurface labels the MCP server's origin on the change bus
const mcpSurface = "mcp"

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the ledger as an MCP (Model Context Protocol) server so agents
like Claude can log food, workouts, water and weight and read daily
and weekly summaries via stdio. Writes show up live in other surfaces.

Configure in Claude Desktop's config file to enable the ledger tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  fuel mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "fuel": {
  #       "command": "fuel",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openAppAs(cmd, mcpSurface)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	server := mcpserver.NewMCPServer(
		"Fuel Ledger",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(false),
	)
	mcp.RegisterTools(server, a.Ledger, a.Log)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		a.Log.Info("MCP server starting on stdio", "surface", a.Surface.Origin())
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
