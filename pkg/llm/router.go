package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// Router picks between the two known providers and falls back exactly once
// when the primary fails. A response always comes from a single provider.
type Router struct {
	gemini          Provider
	claude          Provider
	defaultProvider string
	logger          *zap.Logger
}

// NewRouter creates a router over the two providers. defaultProvider names
// the primary used when a request carries no preference; unknown values
// fall through to gemini.
func NewRouter(gemini, claude Provider, defaultProvider string, logger *zap.Logger) *Router {
	return &Router{
		gemini:          gemini,
		claude:          claude,
		defaultProvider: defaultProvider,
		logger:          logger.Named("llm"),
	}
}

// GenerateSQL runs the request against the primary provider and, on any
// failure, against the fallback once. If both fail the returned error
// carries both providers' messages so "primary down" and "both down" are
// distinguishable.
func (r *Router) GenerateSQL(ctx context.Context, req *models.SQLGenerationRequest, preferred string) (*models.SQLGenerationResponse, error) {
	primary, fallback := r.resolve(preferred)

	resp, primaryErr := primary.GenerateSQL(ctx, req, "")
	if primaryErr == nil {
		return resp, nil
	}

	r.logger.Warn("primary provider failed, trying fallback",
		zap.String("primary", primary.Name()),
		zap.String("fallback", fallback.Name()),
		zap.String("reason", failureReason(primaryErr)),
		zap.Error(primaryErr))

	resp, fallbackErr := fallback.GenerateSQL(ctx, req, "")
	if fallbackErr == nil {
		return resp, nil
	}

	// The message embeds both providers' error text verbatim, so the cause
	// chain would only duplicate it.
	message := fmt.Sprintf("all providers failed: %s: %v; %s: %v",
		primary.Name(), primaryErr, fallback.Name(), fallbackErr)
	return nil, apperrors.NewProviderError(primary.Name(), message, nil)
}

// ConfiguredProviders returns the identifiers of providers holding a
// credential, in a fixed gemini-then-claude order.
func (r *Router) ConfiguredProviders() []string {
	providers := []string{}
	if r.gemini.IsConfigured() {
		providers = append(providers, ProviderGemini)
	}
	if r.claude.IsConfigured() {
		providers = append(providers, ProviderClaude)
	}
	return providers
}

// HasProvider reports whether at least one provider holds a credential.
func (r *Router) HasProvider() bool {
	return r.gemini.IsConfigured() || r.claude.IsConfigured()
}

// resolve returns the (primary, fallback) pair for a request preference.
// Primary is the preference when it names a known provider, else the
// configured default, else gemini; the other provider is the fallback.
// A missing credential does not reroute here — the failed call does.
func (r *Router) resolve(preferred string) (Provider, Provider) {
	name := preferred
	if !knownProvider(name) {
		name = r.defaultProvider
	}
	if !knownProvider(name) {
		name = ProviderGemini
	}
	if name == ProviderClaude {
		return r.claude, r.gemini
	}
	return r.gemini, r.claude
}

func knownProvider(name string) bool {
	return name == ProviderGemini || name == ProviderClaude
}

// failureReason buckets a provider error for log fields. Nothing is retried
// on the strength of this — the only recovery is the single fallback call.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "is not set") || strings.Contains(lower, "api key") ||
		strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized"):
		return "auth"
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "429"):
		return "rate_limit"
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "timeout"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return "network"
	case strings.Contains(lower, "empty response"):
		return "empty_reply"
	}
	return "unknown"
}
