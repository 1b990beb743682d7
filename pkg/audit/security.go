// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/middleware"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL injection
	// patterns in a bound parameter.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventStatementRejected is logged when generated SQL fails read-only validation.
	EventStatementRejected SecurityEventType = "statement_rejected"
	// EventQueryExecution is logged for successful query execution (can be high volume).
	EventQueryExecution SecurityEventType = "query_execution"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails contains specifics of a detected SQL injection attempt.
// The raw parameter value is recorded deliberately: it is attacker-controlled
// input, not a secret, and the pattern is what analysts need to see.
type SQLInjectionDetails struct {
	ParamPosition int    `json:"param_position"`
	ParamValue    string `json:"param_value"`
	Fingerprint   string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
	Question      string `json:"question"`
}

// StatementRejectedDetails records generated SQL that failed validation before
// execution. The model produced the statement, so this is usually a generation
// miss rather than an attack, but the full statement is kept for review.
type StatementRejectedDetails struct {
	SQL      string `json:"sql"`
	Reason   string `json:"reason"`
	Provider string `json:"provider"`
	Question string `json:"question"`
}

// QueryExecutionDetails records a generated statement that ran to completion.
type QueryExecutionDetails struct {
	Question        string `json:"question"`
	SQL             string `json:"sql"`
	Provider        string `json:"provider"`
	RowCount        int    `json:"row_count"`
	ExecutionTimeMS int64  `json:"execution_time_ms"`
}

// SecurityAuditor logs security events for SIEM consumption.
// Events are logged in structured JSON format with appropriate severity levels.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
// The logger is automatically configured with "security_audit" namespace for easy
// filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	// Create a child logger with security-specific namespace for SIEM parsing
	securityLogger := logger.Named("security_audit")
	return &SecurityAuditor{logger: securityLogger}
}

// LogInjectionAttempt records a detected SQL injection attempt with full context.
// This is logged at ERROR level with "critical" severity for immediate alerting.
//
// The context is used to extract the request ID when the call originated from
// an HTTP request; MCP calls carry no request ID and the field is omitted.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, details SQLInjectionDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  "critical",
	}

	// Serialize event to JSON for SIEM ingestion
	// Ignoring error as marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	// Log at ERROR level to ensure visibility in monitoring systems
	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", event.RequestID),
		zap.Int("param_position", details.ParamPosition),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", "critical"),
	)
}

// LogStatementRejected records generated SQL that failed read-only validation.
// This is logged at WARN level as these are typically generation misses, not attacks.
func (a *SecurityAuditor) LogStatementRejected(ctx context.Context, details StatementRejectedDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventStatementRejected,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Generated statement rejected",
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", event.RequestID),
		zap.String("provider", details.Provider),
		zap.String("reason", details.Reason),
		zap.String("severity", "warning"),
	)
}

// LogQueryExecution records a successfully executed generated statement for
// the audit trail. This is logged at INFO level.
// Note: this produces one event per executed query and can generate high log
// volume in production.
func (a *SecurityAuditor) LogQueryExecution(ctx context.Context, details QueryExecutionDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventQueryExecution,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  "info",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Info("Query executed",
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", event.RequestID),
		zap.String("provider", details.Provider),
		zap.Int("row_count", details.RowCount),
		zap.Int64("execution_time_ms", details.ExecutionTimeMS),
		zap.String("severity", "info"),
	)
}
