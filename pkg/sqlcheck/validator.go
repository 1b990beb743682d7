// Package sqlcheck classifies generated SQL as safe to run against the
// target database. Validation is pattern-based by design: it constrains
// LLM output to read-only statements, it is not a SQL grammar.
package sqlcheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
)

// blockedKeywords are statement-leading keywords that modify data or
// schema. A statement starting with one of these, or stacked after a
// semicolon, is rejected outright.
var blockedKeywords = map[string]bool{
	"insert":   true,
	"update":   true,
	"delete":   true,
	"drop":     true,
	"truncate": true,
	"alter":    true,
	"create":   true,
	"grant":    true,
	"revoke":   true,
	"exec":     true,
	"execute":  true,
}

// modifyingCTEPattern matches CTEs that smuggle data-modifying operations
// into a WITH statement, e.g. WITH d AS (DELETE FROM t) SELECT * FROM d.
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE)\b`)

// limitPattern matches an existing LIMIT clause.
var limitPattern = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)

// Validate reports whether sql is a read-only statement. It returns nil
// for safe SQL and a *apperrors.ValidationError otherwise. Matching is
// case-insensitive and whitespace-tolerant.
func Validate(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return apperrors.NewValidationError("query is empty", sql)
	}

	first := leadingKeyword(trimmed)
	if blockedKeywords[first] {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s statements are not allowed; only read-only queries are permitted", strings.ToUpper(first)),
			sql,
		)
	}

	if kw := stackedKeyword(trimmed); kw != "" {
		return apperrors.NewValidationError(
			fmt.Sprintf("multiple statements detected; %s after semicolon is not allowed", strings.ToUpper(kw)),
			sql,
		)
	}

	if first != "select" && first != "with" {
		return apperrors.NewValidationError(
			"query must start with SELECT or WITH",
			sql,
		)
	}

	if first == "with" && modifyingCTEPattern.MatchString(trimmed) {
		return apperrors.NewValidationError(
			"data-modifying CTEs are not allowed",
			sql,
		)
	}

	return nil
}

// Normalize strips one trailing semicolon and surrounding whitespace.
func Normalize(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimRight(sql, " \t\n\r")
	if strings.HasSuffix(sql, ";") {
		sql = strings.TrimSuffix(sql, ";")
		sql = strings.TrimRight(sql, " \t\n\r")
	}
	return sql
}

// EnsureLimit caps unbounded result sets: when sql carries no LIMIT clause
// the trailing semicolon is stripped and "LIMIT maxRows" appended. SQL that
// already limits itself passes through unchanged.
func EnsureLimit(sql string, maxRows int) string {
	if limitPattern.MatchString(sql) {
		return sql
	}
	return fmt.Sprintf("%s LIMIT %d", Normalize(sql), maxRows)
}

// HasLimit reports whether sql already contains a LIMIT clause.
func HasLimit(sql string) bool {
	return limitPattern.MatchString(sql)
}

// leadingKeyword returns the first letter-run of s, lowercased. Scanning
// stops at the first non-letter so "select*" still yields "select".
func leadingKeyword(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			end++
			continue
		}
		break
	}
	return strings.ToLower(s[:end])
}

// stackedKeyword scans for a semicolon outside string literals followed by
// a blocked keyword, returning that keyword or "". Both backslash and SQL
// doubled-quote escapes are tolerated inside literals.
func stackedKeyword(sql string) string {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prev := byte(0)

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch state {
		case stateNormal:
			switch c {
			case ';':
				rest := strings.TrimLeft(sql[i+1:], " \t\n\r")
				if kw := leadingKeyword(rest); blockedKeywords[kw] {
					return kw
				}
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			if c == '\'' && prev != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if c == '"' && prev != '\\' {
				state = stateNormal
			}
		}
		prev = c
	}
	return ""
}
