package apperrors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing credential or connection parameter.
// It is fatal to the operation that needed the value, never to the process.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ConnectionError reports an unreachable database.
type ConnectionError struct {
	Message string
	Cause   error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError wraps a transport failure from the database client.
func NewConnectionError(message string, cause error) *ConnectionError {
	return &ConnectionError{Message: message, Cause: cause}
}

// QueryError reports a failed catalog query during schema introspection.
type QueryError struct {
	Message string
	Cause   error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewQueryError wraps a catalog query failure.
func NewQueryError(message string, cause error) *QueryError {
	return &QueryError{Message: message, Cause: cause}
}

// ValidationError reports SQL that failed the read-only safety check.
// SQL carries the offending statement so callers can surface it verbatim.
type ValidationError struct {
	Message string
	SQL     string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError for the given statement.
func NewValidationError(message, sql string) *ValidationError {
	return &ValidationError{Message: message, SQL: sql}
}

// TimeoutError reports a statement that exceeded the configured bound.
type TimeoutError struct {
	TimeoutMS int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query timed out after %dms", e.TimeoutMS)
}

// NewTimeoutError creates a TimeoutError naming the configured bound.
func NewTimeoutError(timeoutMS int) *TimeoutError {
	return &TimeoutError{TimeoutMS: timeoutMS}
}

// ProviderError reports a single failed LLM provider call. The orchestrator
// recovers from it via fallback; it reaches callers only when both fail.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a ProviderError attributed to the named provider.
func NewProviderError(provider, message string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, Cause: cause}
}

// ExecutionError reports a database failure while running a validated query.
type ExecutionError struct {
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewExecutionError wraps a query execution failure.
func NewExecutionError(message string, cause error) *ExecutionError {
	return &ExecutionError{Message: message, Cause: cause}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
