package tools

import "github.com/mark3labs/mcp-go/mcp"

// getOptionalString extracts an optional string parameter from the request.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		if val, ok := args[key].(string); ok {
			return val
		}
	}
	return ""
}

// getOptionalBool extracts an optional boolean parameter from the request.
func getOptionalBool(req mcp.CallToolRequest, key string) (bool, bool) {
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		if val, ok := args[key].(bool); ok {
			return val, true
		}
	}
	return false, false
}
