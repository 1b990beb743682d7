package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the model
// as a successful tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the model should see and
// can potentially fix (e.g., unsafe SQL, a missing API key).
//
// Do NOT use this for system failures (database connection errors,
// internal server errors) - those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewErrorResultWithDetails creates an error result with additional context.
// The details field can carry anything that helps the model respond, such
// as the rejected SQL statement.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// toolErrorResult converts a recoverable taxonomy error into a structured
// result, or returns nil when the error is a system failure that should
// surface as a plain Go error.
func toolErrorResult(err error) *mcp.CallToolResult {
	var (
		validationErr *apperrors.ValidationError
		timeoutErr    *apperrors.TimeoutError
		configErr     *apperrors.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		return NewErrorResult("validation_error", validationErr.Message)
	case errors.As(err, &timeoutErr):
		return NewErrorResult("query_timeout", timeoutErr.Error())
	case errors.As(err, &configErr):
		return NewErrorResult("configuration_error", configErr.Message)
	default:
		return nil
	}
}
