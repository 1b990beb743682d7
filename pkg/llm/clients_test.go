package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

func TestGeminiClient_Identity(t *testing.T) {
	client := NewGeminiClient(config.LLMConfig{
		GeminiAPIKey: "key",
		GeminiModel:  "gemini-2.0-flash",
	}, zap.NewNop())

	assert.Equal(t, ProviderGemini, client.Name())
	assert.Equal(t, "gemini-2.0-flash", client.DefaultModel())
	assert.True(t, client.IsConfigured())
}

func TestGeminiClient_MissingCredential(t *testing.T) {
	client := NewGeminiClient(config.LLMConfig{}, zap.NewNop())

	assert.False(t, client.IsConfigured())

	_, err := client.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	var provErr *apperrors.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ProviderGemini, provErr.Provider)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY is not set")
}

func TestClaudeClient_Identity(t *testing.T) {
	client := NewClaudeClient(config.LLMConfig{
		ClaudeAPIKey: "key",
		ClaudeModel:  "claude-sonnet-4-5-20250929",
	}, zap.NewNop())

	assert.Equal(t, ProviderClaude, client.Name())
	assert.Equal(t, "claude-sonnet-4-5-20250929", client.DefaultModel())
	assert.True(t, client.IsConfigured())
}

func TestClaudeClient_MissingCredential(t *testing.T) {
	client := NewClaudeClient(config.LLMConfig{}, zap.NewNop())

	assert.False(t, client.IsConfigured())

	_, err := client.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	var provErr *apperrors.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ProviderClaude, provErr.Provider)
	assert.Contains(t, err.Error(), "CLAUDE_API_KEY is not set")
}
