package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/prompts"
)

// Generation settings shared by both providers. The low temperature keeps
// output close to deterministic; the token cap bounds cost per request.
const (
	generationTemperature = 0.1
	generationMaxTokens   = 1024
)

// ClaudeClient generates SQL through the Anthropic Messages API.
type ClaudeClient struct {
	cfg    config.LLMConfig
	logger *zap.Logger

	initOnce sync.Once
	client   *anthropic.Client
}

// NewClaudeClient creates a Claude-backed provider. The underlying API
// client is not constructed until the first generation call.
func NewClaudeClient(cfg config.LLMConfig, logger *zap.Logger) *ClaudeClient {
	return &ClaudeClient{
		cfg:    cfg,
		logger: logger.Named("claude"),
	}
}

// Name implements Provider.
func (c *ClaudeClient) Name() string {
	return ProviderClaude
}

// DefaultModel implements Provider.
func (c *ClaudeClient) DefaultModel() string {
	return c.cfg.ClaudeModel
}

// IsConfigured implements Provider.
func (c *ClaudeClient) IsConfigured() bool {
	return c.cfg.ClaudeAPIKey != ""
}

// transport returns the memoized Anthropic client, constructing it on first
// use. Fails fast when the credential is absent.
func (c *ClaudeClient) transport() (*anthropic.Client, error) {
	if !c.IsConfigured() {
		return nil, apperrors.NewProviderError(ProviderClaude, "CLAUDE_API_KEY is not set", nil)
	}
	c.initOnce.Do(func() {
		c.client = anthropic.NewClient(c.cfg.ClaudeAPIKey)
	})
	return c.client, nil
}

// GenerateSQL implements Provider.
func (c *ClaudeClient) GenerateSQL(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
	client, err := c.transport()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = c.DefaultModel()
	}

	prompt := prompts.BuildSQLGenerationPrompt(req.Question, req.SchemaText, req.History)
	temperature := float32(generationTemperature)

	c.logger.Debug("requesting SQL generation",
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)))

	start := time.Now()
	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(model),
		System:      prompts.SystemPrompt,
		MaxTokens:   generationMaxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					{Type: "text", Text: &prompt},
				},
			},
		},
	})
	if err != nil {
		return nil, apperrors.NewProviderError(ProviderClaude, "Claude API error", err)
	}

	text := firstTextBlock(resp.Content)
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewProviderError(ProviderClaude, "empty response from Claude", nil)
	}

	result := ParseResponse(text)
	result.Provider = ProviderClaude
	result.Model = model

	c.logger.Info("SQL generation completed",
		zap.String("model", model),
		zap.String("confidence", result.Confidence),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// firstTextBlock returns the first textual content block of a reply.
func firstTextBlock(blocks []anthropic.MessageContent) string {
	for _, block := range blocks {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
