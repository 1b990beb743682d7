package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

func TestConnectionHandler_Connection(t *testing.T) {
	svc := &mockConnectionService{
		status: &services.ConnectionStatus{
			Database: services.DatabaseStatus{
				Connected: true,
				Database:  "appdb",
			},
			LLM: services.LLMStatus{
				ConfiguredProviders: []string{"gemini", "claude"},
				HasProvider:         true,
			},
		},
	}
	handler := NewConnectionHandler(svc, zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/connection", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body services.ConnectionStatus
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !body.Database.Connected {
		t.Error("expected database.connected true")
	}
	if body.Database.Database != "appdb" {
		t.Errorf("database = %q, want appdb", body.Database.Database)
	}
	if len(body.LLM.ConfiguredProviders) != 2 || body.LLM.ConfiguredProviders[0] != "gemini" {
		t.Errorf("configuredProviders = %v", body.LLM.ConfiguredProviders)
	}
	if !body.LLM.HasProvider {
		t.Error("expected llm.hasProvider true")
	}
}

func TestConnectionHandler_Connection_DatabaseDownStill200(t *testing.T) {
	svc := &mockConnectionService{
		status: &services.ConnectionStatus{
			Database: services.DatabaseStatus{
				Connected: false,
				Database:  "appdb",
				Error:     "failed to ping database: connection refused",
			},
			LLM: services.LLMStatus{
				ConfiguredProviders: []string{},
				HasProvider:         false,
			},
		},
	}
	handler := NewConnectionHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connection", nil)
	rec := httptest.NewRecorder()
	handler.Connection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the database is down", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	db, ok := body["database"].(map[string]any)
	if !ok {
		t.Fatalf("missing database section: %v", body)
	}
	if db["connected"] != false {
		t.Error("expected connected false")
	}
	if db["error"] == "" || db["error"] == nil {
		t.Error("expected error detail in payload")
	}

	llm, ok := body["llm"].(map[string]any)
	if !ok {
		t.Fatalf("missing llm section: %v", body)
	}
	providers, ok := llm["configuredProviders"].([]any)
	if !ok {
		t.Fatalf("configuredProviders should marshal as an array, got %T", llm["configuredProviders"])
	}
	if len(providers) != 0 {
		t.Errorf("configuredProviders = %v, want empty", providers)
	}
}
