package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/logging"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteAppError maps a service error onto the uniform error shape. Messages
// are sanitized so credentials from connection strings never reach callers.
func WriteAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := statusForError(err)
	if writeErr := ErrorResponse(w, status, code, logging.SanitizeError(err)); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// statusForError picks the HTTP status and stable error code for each error
// in the taxonomy. Unrecognized errors fall through to a plain 500.
func statusForError(err error) (int, string) {
	var (
		validationErr *apperrors.ValidationError
		timeoutErr    *apperrors.TimeoutError
		providerErr   *apperrors.ProviderError
		connectionErr *apperrors.ConnectionError
		configErr     *apperrors.ConfigurationError
		queryErr      *apperrors.QueryError
		executionErr  *apperrors.ExecutionError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error"
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "query_timeout"
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, "provider_error"
	case errors.As(err, &connectionErr):
		return http.StatusServiceUnavailable, "database_unavailable"
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable, "configuration_error"
	case errors.As(err, &queryErr):
		return http.StatusInternalServerError, "schema_discovery_failed"
	case errors.As(err, &executionErr):
		return http.StatusInternalServerError, "execution_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
