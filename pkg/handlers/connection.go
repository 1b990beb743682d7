package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// ConnectionHandler handles connectivity status HTTP requests.
type ConnectionHandler struct {
	connectionService services.ConnectionService
	logger            *zap.Logger
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(connectionService services.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the connection handler's routes on the given mux.
func (h *ConnectionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/connection", h.Connection)
}

// Connection handles GET /api/connection
//
// A down database is reported inside the payload, never as an HTTP error,
// so monitoring always receives a 200 with the details.
func (h *ConnectionHandler) Connection(w http.ResponseWriter, r *http.Request) {
	status := h.connectionService.Status(r.Context())

	if err := WriteJSON(w, http.StatusOK, status); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
