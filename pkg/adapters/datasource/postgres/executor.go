package postgres

import (
	"context"
	"fmt"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/sqlcheck"
)

// ExecuteQuery runs a read-only query with positional $N parameters and
// collects the full result set. SQL without a LIMIT clause is capped at
// maxRows first; an explicit LIMIT passes through unchanged.
func (d *DataSource) ExecuteQuery(ctx context.Context, sqlText string, params []any, maxRows int) (*models.QueryResult, error) {
	queryToRun := sqlText
	if maxRows > 0 {
		queryToRun = sqlcheck.EnsureLimit(sqlText, maxRows)
	}

	rows, err := d.pool.Query(ctx, queryToRun, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	fields := make([]models.ColumnInfo, len(fieldDescs))
	for i, fd := range fieldDescs {
		fields[i] = models.ColumnInfo{
			Name: fd.Name,
			Type: pgTypeNameFromOID(fd.DataTypeOID),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		rowMap := make(map[string]any, len(fields))
		for i, f := range fields {
			rowMap[f.Name] = values[i]
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

// ExplainQuery returns the PostgreSQL execution plan without running the
// statement, one entry per plan line.
func (d *DataSource) ExplainQuery(ctx context.Context, sqlText string) ([]string, error) {
	rows, err := d.pool.Query(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to explain query: %w", err)
	}
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("failed to scan plan line: %w", err)
		}
		plan = append(plan, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading plan: %w", err)
	}
	return plan, nil
}
