package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// ExecuteQuery runs a read-only query and collects the full result set.
// Positional $N placeholders are converted to @pN named parameters, a
// trailing LIMIT clause is translated away, and the result is capped
// with TOP or OFFSET/FETCH depending on whether the query orders itself.
func (d *DataSource) ExecuteQuery(ctx context.Context, sqlText string, params []any, maxRows int) (*models.QueryResult, error) {
	queryToRun, rowCap := translateLimit(convertPositionalParams(sqlText), maxRows)
	switch {
	case rowCap <= 0 || hasRowBound(queryToRun):
		// Already bounded (TOP or FETCH), run as written.
	case endsWithOrderBy(queryToRun):
		// ORDER BY is illegal inside a derived table, so cap with
		// OFFSET/FETCH appended after the existing ORDER BY instead.
		queryToRun = fmt.Sprintf("%s OFFSET 0 ROWS FETCH NEXT %d ROWS ONLY", queryToRun, rowCap)
	default:
		queryToRun = fmt.Sprintf("SELECT TOP (%d) * FROM (%s) AS _limited", rowCap, queryToRun)
	}

	namedParams := make([]any, len(params))
	for i, param := range params {
		namedParams[i] = sql.Named(fmt.Sprintf("p%d", i+1), param)
	}

	rows, err := d.db.QueryContext(ctx, queryToRun, namedParams...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	fields := make([]models.ColumnInfo, len(columnNames))
	for i, name := range columnNames {
		fields[i] = models.ColumnInfo{
			Name: name,
			Type: mapSQLServerType(columnTypes[i].DatabaseTypeName()),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columnNames))
		valuePtrs := make([]any, len(columnNames))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columnNames))
		for i, name := range columnNames {
			val := values[i]
			// The driver hands text columns back as []byte.
			if b, ok := val.([]byte); ok && isStringType(columnTypes[i].DatabaseTypeName()) {
				val = string(b)
			}
			rowMap[name] = val
		}
		resultRows = append(resultRows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &models.QueryResult{
		Rows:     resultRows,
		RowCount: len(resultRows),
		Fields:   fields,
	}, nil
}

// ExplainQuery returns the estimated execution plan without running the
// statement. SHOWPLAN_TEXT is session-scoped, so the whole exchange runs
// on one dedicated connection and the flag is reset before the
// connection returns to the pool.
func (d *DataSource) ExplainQuery(ctx context.Context, sqlText string) ([]string, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET SHOWPLAN_TEXT ON"); err != nil {
		return nil, fmt.Errorf("failed to enable showplan: %w", err)
	}
	defer conn.ExecContext(ctx, "SET SHOWPLAN_TEXT OFF")

	rows, err := conn.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to explain query: %w", err)
	}
	defer rows.Close()

	// SHOWPLAN_TEXT emits the statement text and the plan as separate
	// result sets; collect every non-empty line from all of them.
	var plan []string
	for {
		for rows.Next() {
			var line sql.NullString
			if err := rows.Scan(&line); err != nil {
				return nil, fmt.Errorf("failed to scan plan line: %w", err)
			}
			if line.Valid && strings.TrimSpace(line.String) != "" {
				plan = append(plan, line.String)
			}
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading plan: %w", err)
		}
		if !rows.NextResultSet() {
			break
		}
	}

	return plan, nil
}
