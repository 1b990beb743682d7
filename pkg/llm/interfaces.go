// Package llm contains the provider clients that turn natural language
// questions into SQL, the shared response parser, and the router that
// decides which provider serves a request.
package llm

import (
	"context"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// Provider identifiers as they appear in configuration and API requests.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Provider defines the interface for a single LLM backend.
// Use this interface for dependency injection to enable mocking in tests.
type Provider interface {
	// Name returns the provider identifier ("gemini" or "claude").
	Name() string

	// DefaultModel returns the model used when no override is given.
	DefaultModel() string

	// IsConfigured reports whether a credential is present for this provider.
	IsConfigured() bool

	// GenerateSQL asks the backend to produce SQL for the request.
	// model overrides the provider default when non-empty.
	GenerateSQL(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error)
}

// Ensure both clients implement Provider at compile time.
var (
	_ Provider = (*GeminiClient)(nil)
	_ Provider = (*ClaudeClient)(nil)
)
