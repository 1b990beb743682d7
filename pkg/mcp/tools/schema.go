package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// RegisterSchemaTool adds the schema inspection tool to the MCP server.
func RegisterSchemaTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"get_schema",
		mcp.WithDescription(
			"Return the schema of the connected database: tables, columns with "+
				"types, primary keys and foreign keys. "+
				"Set refresh to re-introspect instead of serving the cached snapshot.",
		),
		mcp.WithBoolean(
			"refresh",
			mcp.Description("Re-introspect the database instead of serving the cached snapshot"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refresh, _ := getOptionalBool(req, "refresh")

		schema, err := deps.SchemaService.Introspect(ctx, refresh)
		if err != nil {
			deps.Logger.Error("MCP schema tool failed", zap.Error(err))
			return nil, fmt.Errorf("failed to introspect schema: %w", err)
		}

		response := struct {
			Tables     []models.TableSchema `json:"tables"`
			TableCount int                  `json:"tableCount"`
			Timestamp  time.Time            `json:"timestamp"`
			Changes    *models.SchemaDiff   `json:"changes,omitempty"`
		}{
			Tables:     schema.Tables,
			TableCount: len(schema.Tables),
			Timestamp:  schema.Timestamp,
		}
		if refresh {
			if diff := deps.SchemaService.LastDiff(); diff != nil && !diff.Empty() {
				response.Changes = diff
			}
		}

		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
