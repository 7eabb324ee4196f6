// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"arewetypedyet Sample Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_projects ---
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List configured and stored projects with the totals of their newest sample."),
	), h.handleListProjects)

	// --- 2. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Get the weekly type-precision totals of a project, newest commit first."),
		mcp.WithString("project", mcp.Description("Project name, e.g. 'synapse'."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of samples returned (all when omitted).")),
	), h.handleGetSeries)

	// --- 3. Tool: get_module_trend ---
	s.AddTool(mcp.NewTool("get_module_trend",
		mcp.WithDescription("Get the weekly type-precision counters of one module, newest commit first."),
		mcp.WithString("project", mcp.Description("Project name, e.g. 'synapse'."), mcp.Required()),
		mcp.WithString("module", mcp.Description("Module path; grouped to its first two components, e.g. 'synapse.storage'."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of samples returned (all when omitted).")),
	), h.handleGetModuleTrend)

	// --- 4. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Report the sample store backend, schema version and row counts."),
	), h.handleGetStoreStatus)

	return s
}

// StartMCPServer starts the MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
