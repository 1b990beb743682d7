package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/mcp"
)

func TestMCPHandler_RejectsNonPOST(t *testing.T) {
	mcpServer := mcp.NewServer("test", "1.0.0", zap.NewNop())
	handler := NewMCPHandler(mcpServer, zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/mcp", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /mcp status = %d, want 405", method, rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != "POST" {
			t.Errorf("%s /mcp Allow = %q, want POST", method, allow)
		}
	}
}
