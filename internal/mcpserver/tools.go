package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"txinstall/internal/audit"
	"txinstall/internal/config"
	"txinstall/internal/manifest"
	"txinstall/internal/workflow"
)

// toolDeps are the shared collaborators every tool handler closes over.
type toolDeps struct {
	logger workflow.Logger
	audit  *audit.Store
}

func registerRunInstallTool(s *server.MCPServer, deps *toolDeps) {
	tool := mcp.NewTool("run_install",
		mcp.WithDescription("Run the install operation for a workflow manifest. Returns the run summary as JSON."),
		mcp.WithString("manifest_path",
			mcp.Required(),
			mcp.Description("Path to the manifest YAML file describing the steps to run"),
		),
	)
	s.AddTool(tool, deps.runInstallHandler)
}

func registerRunUninstallTool(s *server.MCPServer, deps *toolDeps) {
	tool := mcp.NewTool("run_uninstall",
		mcp.WithDescription("Run the uninstall operation for a workflow manifest, rolling back every step in reverse order. Returns the run summary as JSON."),
		mcp.WithString("manifest_path",
			mcp.Required(),
			mcp.Description("Path to the manifest YAML file describing the steps to roll back"),
		),
	)
	s.AddTool(tool, deps.runUninstallHandler)
}

func registerRunRepairTool(s *server.MCPServer, deps *toolDeps) {
	tool := mcp.NewTool("run_repair",
		mcp.WithDescription("Re-run a subset of a workflow manifest's steps by name. Returns the run summary as JSON."),
		mcp.WithString("manifest_path",
			mcp.Required(),
			mcp.Description("Path to the manifest YAML file describing the steps"),
		),
		mcp.WithString("step_names",
			mcp.Description("Comma-separated step names to repair; empty means every step"),
		),
	)
	s.AddTool(tool, deps.runRepairHandler)
}

func (d *toolDeps) buildEngine(manifestPath string) (*workflow.Engine, error) {
	base := workflow.DefaultWorkflowOptions()
	base.RequireAdministrator = config.Current.RequireAdministrator
	base.RollbackOnFailure = config.Current.SafeMode
	if config.Current.GlobalDeadline > 0 {
		base.Deadline = config.Current.GlobalDeadline
	}

	m, err := manifest.LoadFile(manifestPath, manifest.Builtins(), base)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return workflow.NewEngine(m.Steps, m.Options, workflow.WithLogger(d.logger))
}

func (d *toolDeps) runInstallHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := req.GetArguments()["manifest_path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("manifest_path is required"), nil
	}
	engine, err := d.buildEngine(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := engine.Install(ctx)
	return d.respond(summary, err)
}

func (d *toolDeps) runUninstallHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := req.GetArguments()["manifest_path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("manifest_path is required"), nil
	}
	engine, err := d.buildEngine(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := engine.Uninstall(ctx)
	return d.respond(summary, err)
}

func (d *toolDeps) runRepairHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, ok := args["manifest_path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("manifest_path is required"), nil
	}
	var names []string
	if raw, ok := args["step_names"].(string); ok && raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	engine, err := d.buildEngine(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := engine.Repair(ctx, names...)
	return d.respond(summary, err)
}

// respond records the summary to the audit journal (best effort) and
// marshals it back to the caller.
func (d *toolDeps) respond(summary workflow.WorkflowSummary, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if d.audit != nil {
		if recErr := d.audit.Record(summary); recErr != nil {
			d.logger.Warn("failed to record run to audit journal", "run_id", summary.RunID, "error", recErr)
		}
	}
	out, marshalErr := json.MarshalIndent(summary, "", "  ")
	if marshalErr != nil {
		return mcp.NewToolResultError(marshalErr.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
