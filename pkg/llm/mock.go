package llm

import (
	"context"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// MockProvider is a configurable mock for testing provider routing.
// Set the function field to control behavior in tests.
type MockProvider struct {
	// ProviderName is returned by Name. Defaults to "mock".
	ProviderName string

	// Model is returned by DefaultModel. Defaults to "mock-model".
	Model string

	// Configured is returned by IsConfigured.
	Configured bool

	// GenerateSQLFunc is called when GenerateSQL is invoked.
	// If nil, returns a minimal successful response.
	GenerateSQLFunc func(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error)

	// GenerateSQLCalls counts invocations for verification.
	GenerateSQLCalls int
}

// NewMockProvider creates a configured mock with the given identifier.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Model:        "mock-model",
		Configured:   true,
	}
}

// Name implements Provider.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// DefaultModel implements Provider.
func (m *MockProvider) DefaultModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// IsConfigured implements Provider.
func (m *MockProvider) IsConfigured() bool {
	return m.Configured
}

// GenerateSQL implements Provider.
func (m *MockProvider) GenerateSQL(ctx context.Context, req *models.SQLGenerationRequest, model string) (*models.SQLGenerationResponse, error) {
	m.GenerateSQLCalls++
	if m.GenerateSQLFunc != nil {
		return m.GenerateSQLFunc(ctx, req, model)
	}
	if model == "" {
		model = m.DefaultModel()
	}
	return &models.SQLGenerationResponse{
		SQL:         "SELECT 1",
		Explanation: "mock response",
		Confidence:  models.ConfidenceHigh,
		Provider:    m.Name(),
		Model:       model,
	}, nil
}

// Reset clears call tracking.
func (m *MockProvider) Reset() {
	m.GenerateSQLCalls = 0
}

// Ensure MockProvider implements Provider at compile time.
var _ Provider = (*MockProvider)(nil)
