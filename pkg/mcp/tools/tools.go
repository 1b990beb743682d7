// Package tools registers the MCP tool surface: natural language querying,
// schema inspection, plan explanation and connectivity status. Every tool is
// read-only with respect to the target database.
package tools

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// ToolDeps contains the services the MCP tools operate on.
type ToolDeps struct {
	QueryService      services.QueryService
	SchemaService     services.SchemaService
	ConnectionService services.ConnectionService
	Logger            *zap.Logger
}

// RegisterAll registers every tool on the MCP server.
func RegisterAll(s *server.MCPServer, deps *ToolDeps) {
	RegisterQueryTool(s, deps)
	RegisterSchemaTool(s, deps)
	RegisterExplainTool(s, deps)
	RegisterConnectionTool(s, deps)
}
