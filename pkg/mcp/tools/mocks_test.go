package tools

import (
	"context"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// mockQueryService is a configurable mock for tool tests.
type mockQueryService struct {
	askResp    *services.QueryResponse
	askErr     error
	plan       []string
	explainErr error

	lastAsk *services.QueryRequest
	lastSQL string
}

func (m *mockQueryService) Ask(ctx context.Context, req *services.QueryRequest) (*services.QueryResponse, error) {
	m.lastAsk = req
	return m.askResp, m.askErr
}

func (m *mockQueryService) Explain(ctx context.Context, sql string) ([]string, error) {
	m.lastSQL = sql
	if m.explainErr != nil {
		return nil, m.explainErr
	}
	return m.plan, nil
}

// mockSchemaService is a configurable mock for tool tests.
type mockSchemaService struct {
	schema *models.DatabaseSchema
	err    error
	diff   *models.SchemaDiff

	lastForce bool
}

func (m *mockSchemaService) Introspect(ctx context.Context, forceRefresh bool) (*models.DatabaseSchema, error) {
	m.lastForce = forceRefresh
	if m.err != nil {
		return nil, m.err
	}
	return m.schema, nil
}

func (m *mockSchemaService) CachedSchema() *models.DatabaseSchema {
	return m.schema
}

func (m *mockSchemaService) LastDiff() *models.SchemaDiff {
	return m.diff
}

func (m *mockSchemaService) ClearCache() {}

// mockConnectionService returns a fixed status for tool tests.
type mockConnectionService struct {
	status *services.ConnectionStatus
}

func (m *mockConnectionService) Status(ctx context.Context) *services.ConnectionStatus {
	return m.status
}
