package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// Fixed explanation texts used when the model reply does not carry one.
const (
	defaultExplanation   = "Generated SQL query"
	extractedExplanation = "Extracted SQL from response"
)

// leadingFencePattern and trailingFencePattern strip a markdown code fence
// (with or without a language tag) wrapped around the model reply.
var (
	leadingFencePattern  = regexp.MustCompile("^```[a-zA-Z0-9]*\\s*")
	trailingFencePattern = regexp.MustCompile("```\\s*$")
)

// selectStatementPattern recovers a SELECT statement from free-form text,
// ending at the first semicolon or at end-of-text.
var selectStatementPattern = regexp.MustCompile(`(?is)\bselect\b.*?(;|$)`)

// ParseResponse turns a raw model reply into a best-effort generation
// result. It never fails: replies that honor the JSON contract are decoded
// field by field, anything else degrades to SQL extraction from plain text.
// Provider and Model are left for the caller to stamp.
func ParseResponse(raw string) *models.SQLGenerationResponse {
	cleaned := stripCodeFence(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return extractFromText(raw)
	}

	var payload struct {
		SQL         json.RawMessage `json:"sql"`
		Explanation json.RawMessage `json:"explanation"`
		Confidence  json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return extractFromText(raw)
	}

	resp := &models.SQLGenerationResponse{
		SQL:         strings.TrimSpace(flexibleString(payload.SQL)),
		Explanation: flexibleString(payload.Explanation),
		Confidence:  flexibleString(payload.Confidence),
	}
	if resp.Explanation == "" {
		resp.Explanation = defaultExplanation
	}
	if !models.ValidConfidence(resp.Confidence) {
		resp.Confidence = models.ConfidenceMedium
	}
	return resp
}

// stripCodeFence removes a wrapping markdown fence from s, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = leadingFencePattern.ReplaceAllString(s, "")
	s = trailingFencePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractFromText is the degraded path for replies that are not the
// requested JSON object: pull out the first SELECT statement if one exists,
// otherwise pass the whole reply through as SQL. Either way the result is
// marked low confidence so callers can tell it apart from a compliant reply.
func extractFromText(raw string) *models.SQLGenerationResponse {
	resp := &models.SQLGenerationResponse{
		SQL:         strings.TrimSpace(raw),
		Explanation: extractedExplanation,
		Confidence:  models.ConfidenceLow,
	}
	if match := selectStatementPattern.FindString(raw); match != "" {
		resp.SQL = strings.TrimSpace(match)
	}
	return resp
}

// flexibleString converts a json.RawMessage to a string, tolerating models
// that return numbers or booleans where the contract asks for strings.
// Returns empty string for null or absent values.
func flexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return strconv.FormatInt(int64(numVal), 10)
		}
		return strconv.FormatFloat(numVal, 'g', -1, 64)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return strconv.FormatBool(boolVal)
	}

	return string(raw)
}
