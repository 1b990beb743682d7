package tools

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

func TestConnectionTool_Execute(t *testing.T) {
	svc := &mockConnectionService{
		status: &services.ConnectionStatus{
			Database: services.DatabaseStatus{
				Connected: true,
				Database:  "appdb",
			},
			LLM: services.LLMStatus{
				ConfiguredProviders: []string{"claude"},
				HasProvider:         true,
			},
		},
	}
	s := newToolServer(&ToolDeps{
		QueryService:      &mockQueryService{},
		SchemaService:     &mockSchemaService{},
		ConnectionService: svc,
		Logger:            zap.NewNop(),
	})

	request := `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"connection_status"},"id":1}`
	response := callTool(t, s, request)

	if response.Result.IsError {
		t.Fatalf("unexpected tool error: %+v", response.Result.Content)
	}

	var body services.ConnectionStatus
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &body); err != nil {
		t.Fatalf("failed to unmarshal status: %v", err)
	}
	if !body.Database.Connected {
		t.Error("expected database.connected true")
	}
	if len(body.LLM.ConfiguredProviders) != 1 || body.LLM.ConfiguredProviders[0] != "claude" {
		t.Errorf("configuredProviders = %v", body.LLM.ConfiguredProviders)
	}
}
