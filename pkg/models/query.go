package models

// Confidence levels a provider may attach to generated SQL. Anything else
// is normalized to ConfidenceMedium at the parsing boundary.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ValidConfidence reports whether level is one of the three known values.
func ValidConfidence(level string) bool {
	return level == ConfidenceHigh || level == ConfidenceMedium || level == ConfidenceLow
}

// QueryExample is one (question, SQL) pair. The same shape serves both
// recorded session history and curated few-shot examples loaded from disk.
type QueryExample struct {
	Question string `json:"question" yaml:"question"`
	SQL      string `json:"sql" yaml:"sql"`
}

// SQLGenerationRequest carries one natural-language question together with
// the prompt context it should be answered against.
type SQLGenerationRequest struct {
	Question   string
	SchemaText string
	History    []QueryExample
}

// SQLGenerationResponse is the normalized reply of a provider call.
type SQLGenerationResponse struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation"`
	Confidence  string `json:"confidence"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
}

// ColumnInfo describes one result column by name and database type
// identifier, echoed back so callers need no second schema lookup.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryResult carries the rows, shape metadata and timing of one executed
// query. ExecutionTimeMS is reported even when the row set is empty.
type QueryResult struct {
	Rows            []map[string]any `json:"results"`
	RowCount        int              `json:"rowCount"`
	Fields          []ColumnInfo     `json:"fields"`
	ExecutionTimeMS int64            `json:"executionTime"`
}
