package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/prompts"
)

// GeminiClient generates SQL through Google's OpenAI-compatible endpoint.
type GeminiClient struct {
	cfg    config.LLMConfig
	logger *zap.Logger

	initOnce sync.Once
	client   *openai.Client
}

// NewGeminiClient creates a Gemini-backed provider. The underlying API
// client is not constructed until the first generation call.
func NewGeminiClient(cfg config.LLMConfig, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		cfg:    cfg,
		logger: logger.Named("gemini"),
	}
}

// Name implements Provider.
func (g *GeminiClient) Name() string {
	return ProviderGemini
}

// DefaultModel implements Provider.
func (g *GeminiClient) DefaultModel() string {
	return g.cfg.GeminiModel
}

// IsConfigured implements Provider.
func (g *GeminiClient) IsConfigured() bool {
	return g.cfg.GeminiAPIKey != ""
}

// transport returns the memoized OpenAI-compatible client, constructing it
// on first use. Fails fast when the credential is absent.
func (g *GeminiClient) transport() (*openai.Client, error) {
	if !g.IsConfigured() {
		return nil, apperrors.NewProviderError(ProviderGemini, "GEMINI_API_KEY is not set", nil)
	}
	g.initOnce.Do(func() {
		clientConfig := openai.DefaultConfig(g.cfg.GeminiAPIKey)
		clientConfig.BaseURL = strings.TrimSuffix(g.cfg.GeminiBaseURL, "/")
		g.client = openai.NewClientWithConfig(clientConfig)
	})
	return g.client, nil
}

// GenerateSQL implements Provider.
func (g *GeminiClient) GenerateSQL(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
	client, err := g.transport()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = g.DefaultModel()
	}

	prompt := prompts.BuildSQLGenerationPrompt(req.Question, req.SchemaText, req.History)

	g.logger.Debug("requesting SQL generation",
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)))

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, apperrors.NewProviderError(ProviderGemini, "Gemini API error", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, apperrors.NewProviderError(ProviderGemini, "empty response from Gemini", nil)
	}

	result := ParseResponse(resp.Choices[0].Message.Content)
	result.Provider = ProviderGemini
	result.Model = model

	g.logger.Info("SQL generation completed",
		zap.String("model", model),
		zap.String("confidence", result.Confidence),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}
