package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// SchemaResponse describes the introspected schema snapshot. Changes is
// present only when a refresh was requested and drift was detected against
// the previous snapshot.
type SchemaResponse struct {
	Tables     []models.TableSchema `json:"tables"`
	TableCount int                  `json:"tableCount"`
	Timestamp  time.Time            `json:"timestamp"`
	Changes    *models.SchemaDiff   `json:"changes,omitempty"`
}

// SchemaHandler handles schema inspection HTTP requests.
type SchemaHandler struct {
	schemaService services.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schemaService services.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/schema", h.Schema)
}

// Schema handles GET /api/schema
func (h *SchemaHandler) Schema(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	schema, err := h.schemaService.Introspect(r.Context(), refresh)
	if err != nil {
		h.logger.Error("Schema introspection failed", zap.Error(err))
		WriteAppError(w, h.logger, err)
		return
	}

	response := SchemaResponse{
		Tables:     schema.Tables,
		TableCount: len(schema.Tables),
		Timestamp:  schema.Timestamp,
	}
	if refresh {
		if diff := h.schemaService.LastDiff(); diff != nil && !diff.Empty() {
			response.Changes = diff
		}
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
