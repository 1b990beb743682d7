package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// RegisterQueryTool adds the natural language query tool to the MCP server.
func RegisterQueryTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"query",
		mcp.WithDescription(
			"Answer a natural language question by generating and executing a "+
				"read-only SQL query against the connected database. "+
				"Returns the SQL, an explanation, a confidence level and the result rows.",
		),
		mcp.WithString(
			"question",
			mcp.Required(),
			mcp.Description("The natural language question to answer"),
		),
		mcp.WithString(
			"provider",
			mcp.Description("Optional: LLM provider to use (gemini or claude); defaults to the configured provider"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return nil, err
		}
		provider := getOptionalString(req, "provider")

		resp, err := deps.QueryService.Ask(ctx, &services.QueryRequest{
			Question: question,
			Provider: provider,
		})
		if err != nil {
			var validationErr *apperrors.ValidationError
			if errors.As(err, &validationErr) && resp != nil {
				return NewErrorResultWithDetails("validation_error", validationErr.Message, map[string]any{
					"generated_sql": resp.SQL,
					"explanation":   resp.Explanation,
				}), nil
			}
			if result := toolErrorResult(err); result != nil {
				return result, nil
			}
			deps.Logger.Error("MCP query tool failed", zap.Error(err))
			return nil, fmt.Errorf("query failed: %w", err)
		}

		jsonResult, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal query result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
