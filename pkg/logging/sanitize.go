// Package logging holds helpers that keep credentials and oversized SQL
// out of log output. Values derived from a DSN, a provider error, or a
// generated query go through one of these before reaching a log field.
package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength bounds generated SQL in log fields.
	MaxQueryLogLength = 200
	// Redacted replaces credential material in logged values.
	Redacted = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx in key=value style DSNs.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// api_key=xxx, apikey=xxx style credentials in URLs or error text.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9\-_]{16,}`)

	// user:pass@host userinfo in URL style DSNs (sqlserver://...).
	userinfoPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s?]+`)

	// Provider credential headers quoted back in transport errors
	// (x-goog-api-key for Gemini, x-api-key for Anthropic).
	headerKeyPattern = regexp.MustCompile(`(?i)(x-(?:goog-)?api-key:\s*)\S+`)
)

// SanitizeDSN removes credentials from a connection string before logging.
func SanitizeDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(dsn, "${1}="+Redacted)
	sanitized = userinfoPattern.ReplaceAllString(sanitized, "://"+Redacted+"@"+Redacted)
	return sanitized
}

// SanitizeError strips credential material from an error message. Database
// drivers and HTTP transports both echo connection details into errors.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+Redacted)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+Redacted)
	sanitized = headerKeyPattern.ReplaceAllString(sanitized, "${1}"+Redacted)
	sanitized = userinfoPattern.ReplaceAllString(sanitized, "://"+Redacted+"@"+Redacted)
	return sanitized
}

// SanitizeQuery truncates a SQL query for logging and redacts anything that
// looks like an embedded credential. Generated SQL is model output, so no
// assumption is made about what ends up inside it.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	sanitized := TruncateString(query, MaxQueryLogLength)
	sanitized = passwordPattern.ReplaceAllString(sanitized, "${1}="+Redacted)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+Redacted)
	return sanitized
}

// TruncateString truncates s to maxLen and appends an ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
