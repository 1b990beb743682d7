package mssql

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// limitClausePattern matches a trailing LIMIT clause, which SQL
	// Server does not support.
	limitClausePattern = regexp.MustCompile(`(?is)\bLIMIT\s+(\d+)\s*;?\s*$`)

	// positionalParamPattern matches PostgreSQL-style $1, $2 placeholders.
	positionalParamPattern = regexp.MustCompile(`\$(\d+)`)

	// topClausePattern and fetchClausePattern detect result sets the
	// query already bounds itself.
	topClausePattern   = regexp.MustCompile(`(?i)\bSELECT\s+(?:DISTINCT\s+)?TOP\b`)
	fetchClausePattern = regexp.MustCompile(`(?i)\bFETCH\s+(?:FIRST|NEXT)\s+\d+`)

	// trailingOrderByPattern matches an ORDER BY clause that runs to the
	// end of the statement, i.e. one at the top level rather than inside
	// a parenthesized subquery.
	trailingOrderByPattern = regexp.MustCompile(`(?is)\bORDER\s+BY\s+[^)]*$`)
)

// translateLimit rewrites a trailing PostgreSQL-style LIMIT clause into
// a row cap. It returns the SQL without the clause (and without any
// trailing semicolon, which would break a derived-table wrap) plus the
// effective cap: the explicit LIMIT when present, maxRows otherwise.
func translateLimit(sqlText string, maxRows int) (string, int) {
	limit := maxRows
	if m := limitClausePattern.FindStringSubmatch(sqlText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			limit = n
		}
		sqlText = limitClausePattern.ReplaceAllString(sqlText, "")
	}
	sqlText = strings.TrimSpace(sqlText)
	sqlText = strings.TrimSuffix(sqlText, ";")
	return strings.TrimSpace(sqlText), limit
}

// convertPositionalParams converts PostgreSQL-style positional parameters
// ($1, $2, ...) to SQL Server named parameters (@p1, @p2, ...).
func convertPositionalParams(sqlText string) string {
	return positionalParamPattern.ReplaceAllString(sqlText, "@p$1")
}

// hasRowBound reports whether the query already caps its result set with
// TOP or OFFSET/FETCH.
func hasRowBound(sqlText string) bool {
	return topClausePattern.MatchString(sqlText) || fetchClausePattern.MatchString(sqlText)
}

// endsWithOrderBy reports whether the statement finishes with a top-level
// ORDER BY clause.
func endsWithOrderBy(sqlText string) bool {
	return trailingOrderByPattern.MatchString(sqlText)
}

// displayTableName returns the bare table name for the default schema
// and schema-qualified names everywhere else.
func displayTableName(schemaName, tableName string) string {
	if schemaName == "" || schemaName == "dbo" {
		return tableName
	}
	return schemaName + "." + tableName
}

// mapSQLServerType maps SQL Server type names to the standard names the
// rest of the engine reports, so field descriptors look the same across
// database drivers.
func mapSQLServerType(sqlServerType string) string {
	switch strings.ToUpper(sqlServerType) {
	case "TINYINT":
		return "TINYINT"
	case "SMALLINT":
		return "SMALLINT"
	case "INT":
		return "INTEGER"
	case "BIGINT":
		return "BIGINT"
	case "DECIMAL", "NUMERIC":
		return "NUMERIC"
	case "MONEY", "SMALLMONEY":
		return "MONEY"
	case "FLOAT":
		return "DOUBLE PRECISION"
	case "REAL":
		return "REAL"
	case "CHAR", "NCHAR":
		return "CHAR"
	case "VARCHAR", "NVARCHAR":
		return "VARCHAR"
	case "TEXT", "NTEXT":
		return "TEXT"
	case "BINARY", "VARBINARY":
		return "BYTEA"
	case "DATE":
		return "DATE"
	case "TIME":
		return "TIME"
	case "DATETIME", "DATETIME2", "SMALLDATETIME":
		return "TIMESTAMP"
	case "DATETIMEOFFSET":
		return "TIMESTAMP WITH TIME ZONE"
	case "BIT":
		return "BOOLEAN"
	case "UNIQUEIDENTIFIER":
		return "UUID"
	case "XML":
		return "XML"
	default:
		return strings.ToUpper(sqlServerType)
	}
}

// isStringType reports whether the SQL Server type holds text, used to
// decide when []byte scan results become strings.
func isStringType(sqlType string) bool {
	switch strings.ToUpper(sqlType) {
	case "CHAR", "NCHAR", "VARCHAR", "NVARCHAR", "TEXT", "NTEXT":
		return true
	default:
		return false
	}
}
