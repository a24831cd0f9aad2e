package cmd

import (
	"fmt"
	"os"

	"txinstall/internal/mcpserver"

	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Start an MCP server exposing run_install/run_uninstall/run_repair",
	Long: `Start a Model Context Protocol (MCP) server that lets an AI agent drive
this engine directly: run_install, run_uninstall and run_repair each take a
manifest path and return the resulting WorkflowSummary as JSON.

To use with an MCP-compatible client, point it at this binary's mcp-serve
subcommand over stdio.`,
	Example: `  # Start the MCP server
  txinstall mcp-serve

  # Exercise it manually (sends JSON-RPC via stdin)
  echo '{"jsonrpc":"2.0","method":"tools/list","id":1}' | txinstall mcp-serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mcpserver.Serve(); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}
