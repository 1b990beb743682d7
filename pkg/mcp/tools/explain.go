package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// RegisterExplainTool adds the query plan tool to the MCP server.
func RegisterExplainTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"explain_query",
		mcp.WithDescription(
			"Run the database's EXPLAIN on a SELECT statement and return the "+
				"plan line by line. The statement is validated but never executed.",
		),
		mcp.WithString(
			"sql",
			mcp.Required(),
			mcp.Description("The SELECT statement to explain"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sql, err := req.RequireString("sql")
		if err != nil {
			return nil, err
		}

		plan, err := deps.QueryService.Explain(ctx, sql)
		if err != nil {
			if result := toolErrorResult(err); result != nil {
				return result, nil
			}
			deps.Logger.Error("MCP explain tool failed", zap.Error(err))
			return nil, fmt.Errorf("failed to explain query: %w", err)
		}

		response := struct {
			Plan []string `json:"plan"`
		}{Plan: plan}

		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
