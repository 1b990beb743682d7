package datasource

import (
	"context"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// MockDataSource is a configurable mock for testing the service layer.
// Set the function fields to control behavior in tests.
type MockDataSource struct {
	// PingFunc is called when Ping is invoked. If nil, returns nil.
	PingFunc func(ctx context.Context) error

	// DiscoverSchemaFunc is called when DiscoverSchema is invoked.
	// If nil, returns an empty schema.
	DiscoverSchemaFunc func(ctx context.Context) (*models.DatabaseSchema, error)

	// ExecuteQueryFunc is called when ExecuteQuery is invoked.
	// If nil, returns an empty result.
	ExecuteQueryFunc func(ctx context.Context, sqlText string, params []any, maxRows int) (*models.QueryResult, error)

	// ExplainQueryFunc is called when ExplainQuery is invoked.
	// If nil, returns a single plan line.
	ExplainQueryFunc func(ctx context.Context, sqlText string) ([]string, error)

	// Name is returned by DatabaseName. Defaults to "mockdb".
	Name string

	// Call tracking for verification
	PingCalls           int
	DiscoverSchemaCalls int
	ExecuteQueryCalls   int
	ExplainQueryCalls   int
	CloseCalls          int
}

// NewMockDataSource creates a new mock with sensible defaults.
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{Name: "mockdb"}
}

// Ping implements DataSource.
func (m *MockDataSource) Ping(ctx context.Context) error {
	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// DatabaseName implements DataSource.
func (m *MockDataSource) DatabaseName() string {
	if m.Name == "" {
		return "mockdb"
	}
	return m.Name
}

// DiscoverSchema implements DataSource.
func (m *MockDataSource) DiscoverSchema(ctx context.Context) (*models.DatabaseSchema, error) {
	m.DiscoverSchemaCalls++
	if m.DiscoverSchemaFunc != nil {
		return m.DiscoverSchemaFunc(ctx)
	}
	return &models.DatabaseSchema{}, nil
}

// ExecuteQuery implements DataSource.
func (m *MockDataSource) ExecuteQuery(ctx context.Context, sqlText string, params []any, maxRows int) (*models.QueryResult, error) {
	m.ExecuteQueryCalls++
	if m.ExecuteQueryFunc != nil {
		return m.ExecuteQueryFunc(ctx, sqlText, params, maxRows)
	}
	return &models.QueryResult{Rows: []map[string]any{}, Fields: []models.ColumnInfo{}}, nil
}

// ExplainQuery implements DataSource.
func (m *MockDataSource) ExplainQuery(ctx context.Context, sqlText string) ([]string, error) {
	m.ExplainQueryCalls++
	if m.ExplainQueryFunc != nil {
		return m.ExplainQueryFunc(ctx, sqlText)
	}
	return []string{"Result  (cost=0.00..0.01 rows=1 width=4)"}, nil
}

// Close implements DataSource.
func (m *MockDataSource) Close() error {
	m.CloseCalls++
	return nil
}

// Reset clears call tracking counters.
func (m *MockDataSource) Reset() {
	m.PingCalls = 0
	m.DiscoverSchemaCalls = 0
	m.ExecuteQueryCalls = 0
	m.ExplainQueryCalls = 0
	m.CloseCalls = 0
}

// Ensure MockDataSource implements DataSource at compile time.
var _ DataSource = (*MockDataSource)(nil)
