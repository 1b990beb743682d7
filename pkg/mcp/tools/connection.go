package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterConnectionTool adds the connectivity status tool to the MCP server.
func RegisterConnectionTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"connection_status",
		mcp.WithDescription(
			"Report database connectivity and which LLM providers are configured. "+
				"A down database is reported in the payload, not as a tool failure.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := deps.ConnectionService.Status(ctx)

		jsonResult, err := json.Marshal(status)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal connection status: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
