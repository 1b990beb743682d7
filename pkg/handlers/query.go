package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// QueryValidationFailure is the 400 body returned when generated SQL is
// rejected before execution. The SQL is included verbatim so callers can
// show the user what the model produced.
type QueryValidationFailure struct {
	Error        string `json:"error"`
	GeneratedSQL string `json:"generatedSQL"`
	Explanation  string `json:"explanation"`
}

// ExplainRequest for POST explain body.
type ExplainRequest struct {
	SQL string `json:"sql"`
}

// ExplainResponse carries the database's plan output line by line.
type ExplainResponse struct {
	Plan []string `json:"plan"`
}

// QueryHandler handles natural language query HTTP requests.
type QueryHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Query)
	mux.HandleFunc("POST /api/explain", h.Explain)
}

// Query handles POST /api/query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req services.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "naturalLanguageQuery is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	resp, err := h.queryService.Ask(r.Context(), &req)
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) && resp != nil {
			failure := QueryValidationFailure{
				Error:        validationErr.Message,
				GeneratedSQL: resp.SQL,
				Explanation:  resp.Explanation,
			}
			if err := WriteJSON(w, http.StatusBadRequest, failure); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Query failed", zap.Error(err))
		WriteAppError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Explain handles POST /api/explain
func (h *QueryHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if strings.TrimSpace(req.SQL) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "sql is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	plan, err := h.queryService.Explain(r.Context(), req.SQL)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Explain failed", zap.Error(err))
		}
		WriteAppError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ExplainResponse{Plan: plan}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
