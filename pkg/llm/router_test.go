package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

func newTestRouter(defaultProvider string) (*Router, *MockProvider, *MockProvider) {
	gemini := NewMockProvider(ProviderGemini)
	claude := NewMockProvider(ProviderClaude)
	return NewRouter(gemini, claude, defaultProvider, zap.NewNop()), gemini, claude
}

func failingGenerate(message string) func(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
	return func(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
		return nil, errors.New(message)
	}
}

func TestRouter_GenerateSQL_PrimarySuccessSkipsFallback(t *testing.T) {
	router, gemini, claude := newTestRouter(ProviderGemini)

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Equal(t, 1, gemini.GenerateSQLCalls)
	assert.Equal(t, 0, claude.GenerateSQLCalls, "fallback must not be invoked on primary success")
}

func TestRouter_GenerateSQL_FallbackInvokedExactlyOnce(t *testing.T) {
	router, gemini, claude := newTestRouter(ProviderGemini)
	gemini.GenerateSQLFunc = failingGenerate("gemini down")

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, resp.Provider)
	assert.Equal(t, 1, gemini.GenerateSQLCalls)
	assert.Equal(t, 1, claude.GenerateSQLCalls)
}

func TestRouter_GenerateSQL_BothFailProducesCompositeError(t *testing.T) {
	router, gemini, claude := newTestRouter(ProviderGemini)
	gemini.GenerateSQLFunc = failingGenerate("gemini exploded")
	claude.GenerateSQLFunc = failingGenerate("claude exploded")

	_, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ProviderGemini)
	assert.Contains(t, err.Error(), ProviderClaude)
	assert.Contains(t, err.Error(), "gemini exploded")
	assert.Contains(t, err.Error(), "claude exploded")
	assert.Equal(t, 1, gemini.GenerateSQLCalls, "no retry beyond the single fallback")
	assert.Equal(t, 1, claude.GenerateSQLCalls, "no retry beyond the single fallback")

	var provErr *apperrors.ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestRouter_GenerateSQL_PreferenceSelectsPrimary(t *testing.T) {
	router, gemini, claude := newTestRouter(ProviderGemini)

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, ProviderClaude)

	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, resp.Provider)
	assert.Equal(t, 1, claude.GenerateSQLCalls)
	assert.Equal(t, 0, gemini.GenerateSQLCalls)
}

func TestRouter_GenerateSQL_UnknownPreferenceFallsBackToDefault(t *testing.T) {
	router, gemini, claude := newTestRouter(ProviderClaude)

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "gpt4")

	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, resp.Provider)
	assert.Equal(t, 1, claude.GenerateSQLCalls)
	assert.Equal(t, 0, gemini.GenerateSQLCalls)
}

func TestRouter_GenerateSQL_UnknownDefaultFallsBackToGemini(t *testing.T) {
	router, gemini, _ := newTestRouter("")

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Equal(t, 1, gemini.GenerateSQLCalls)
}

func TestRouter_GenerateSQL_UnconfiguredPrimaryStillFallsBack(t *testing.T) {
	// A primary without a credential fails its call, which routes to the
	// fallback like any other provider failure.
	router, gemini, claude := newTestRouter(ProviderGemini)
	gemini.Configured = false
	gemini.GenerateSQLFunc = func(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
		return nil, apperrors.NewProviderError(ProviderGemini, "GEMINI_API_KEY is not set", nil)
	}

	resp, err := router.GenerateSQL(context.Background(), &models.SQLGenerationRequest{Question: "q"}, "")

	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, resp.Provider)
	assert.Equal(t, 1, claude.GenerateSQLCalls)
}

func TestRouter_ConfiguredProviders(t *testing.T) {
	tests := []struct {
		name   string
		gemini bool
		claude bool
		want   []string
	}{
		{"both", true, true, []string{ProviderGemini, ProviderClaude}},
		{"gemini only", true, false, []string{ProviderGemini}},
		{"claude only", false, true, []string{ProviderClaude}},
		{"none", false, false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, gemini, claude := newTestRouter(ProviderGemini)
			gemini.Configured = tt.gemini
			claude.Configured = tt.claude

			assert.Equal(t, tt.want, router.ConfiguredProviders())
			assert.Equal(t, tt.gemini || tt.claude, router.HasProvider())
		})
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{apperrors.NewProviderError(ProviderClaude, "CLAUDE_API_KEY is not set", nil), "auth"},
		{errors.New("429 Too Many Requests"), "rate_limit"},
		{errors.New("context deadline exceeded"), "timeout"},
		{errors.New("dial tcp: connection refused"), "network"},
		{apperrors.NewProviderError(ProviderGemini, "empty response from Gemini", nil), "empty_reply"},
		{errors.New("something odd"), "unknown"},
		{nil, ""},
	}

	for _, tt := range tests {
		got := failureReason(tt.err)
		if got != tt.want {
			t.Errorf("failureReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
