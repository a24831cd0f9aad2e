// Package mcpserver exposes the engine over the Model Context Protocol via
// mark3labs/mcp-go, publishing run_install, run_uninstall and run_repair
// as tools a client can invoke against a workflow manifest.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"txinstall/internal/audit"
	"txinstall/internal/logging"
)

// NewServer builds an MCP server exposing run_install, run_uninstall and
// run_repair.
func NewServer(auditStore *audit.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"txinstall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	deps := &toolDeps{
		logger: logging.New("mcpserver"),
		audit:  auditStore,
	}

	registerRunInstallTool(s, deps)
	registerRunUninstallTool(s, deps)
	registerRunRepairTool(s, deps)

	return s
}

// Serve builds a server backed by the default audit store and runs it
// over stdio until the client disconnects.
func Serve() error {
	store, err := audit.Open(audit.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	return server.ServeStdio(NewServer(store))
}
