package mssql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/config"
)

func newMockDataSource(t *testing.T) (*DataSource, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &DataSource{
		cfg:    config.DatabaseConfig{Driver: "mssql", Name: "testdb"},
		db:     db,
		logger: zap.NewNop(),
	}, mock
}

func TestExecuteQueryWrapsWithTop(t *testing.T) {
	d, mock := newMockDataSource(t)

	cols := []*sqlmock.Column{
		sqlmock.NewColumn("name").OfType("NVARCHAR", ""),
		sqlmock.NewColumn("age").OfType("INT", 0),
	}
	rows := sqlmock.NewRowsWithColumnDefinition(cols...).
		AddRow([]byte("alice"), 30).
		AddRow([]byte("bob"), 25)

	mock.ExpectQuery("SELECT TOP (100) * FROM (SELECT name, age FROM users) AS _limited").
		WillReturnRows(rows)

	result, err := d.ExecuteQuery(context.Background(), "SELECT name, age FROM users", nil, 100)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "name", result.Fields[0].Name)
	assert.Equal(t, "VARCHAR", result.Fields[0].Type)
	assert.Equal(t, "age", result.Fields[1].Name)
	assert.Equal(t, "INTEGER", result.Fields[1].Type)

	// Text columns scanned as []byte come back as strings.
	assert.Equal(t, "alice", result.Rows[0]["name"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQueryTranslatesTrailingLimit(t *testing.T) {
	d, mock := newMockDataSource(t)

	rows := sqlmock.NewRows([]string{"name"}).AddRow("alice")
	mock.ExpectQuery("SELECT TOP (5) * FROM (SELECT name FROM users) AS _limited").
		WillReturnRows(rows)

	result, err := d.ExecuteQuery(context.Background(), "SELECT name FROM users LIMIT 5;", nil, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQueryOrderByUsesOffsetFetch(t *testing.T) {
	d, mock := newMockDataSource(t)

	rows := sqlmock.NewRows([]string{"name"}).AddRow("alice")
	mock.ExpectQuery("SELECT name FROM users ORDER BY name OFFSET 0 ROWS FETCH NEXT 100 ROWS ONLY").
		WillReturnRows(rows)

	_, err := d.ExecuteQuery(context.Background(), "SELECT name FROM users ORDER BY name", nil, 100)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQueryConvertsPositionalParams(t *testing.T) {
	d, mock := newMockDataSource(t)

	rows := sqlmock.NewRows([]string{"name"}).AddRow("alice")
	mock.ExpectQuery("SELECT TOP (10) * FROM (SELECT name FROM users WHERE id = @p1) AS _limited").
		WithArgs(sql.Named("p1", 42)).
		WillReturnRows(rows)

	result, err := d.ExecuteQuery(context.Background(), "SELECT name FROM users WHERE id = $1", []any{42}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQueryPreservesExistingTop(t *testing.T) {
	d, mock := newMockDataSource(t)

	rows := sqlmock.NewRows([]string{"name"}).AddRow("alice")
	mock.ExpectQuery("SELECT TOP (3) name FROM users").WillReturnRows(rows)

	_, err := d.ExecuteQuery(context.Background(), "SELECT TOP (3) name FROM users", nil, 100)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExplainQueryCollectsPlanLines(t *testing.T) {
	d, mock := newMockDataSource(t)

	mock.ExpectExec("SET SHOWPLAN_TEXT ON").WillReturnResult(sqlmock.NewResult(0, 0))

	stmtRows := sqlmock.NewRows([]string{"StmtText"}).AddRow("SELECT name FROM users")
	planRows := sqlmock.NewRows([]string{"StmtText"}).
		AddRow("  |--Index Scan(OBJECT:([testdb].[dbo].[users].[ix_users_name]))")
	mock.ExpectQuery("SELECT name FROM users").WillReturnRows(stmtRows, planRows)

	mock.ExpectExec("SET SHOWPLAN_TEXT OFF").WillReturnResult(sqlmock.NewResult(0, 0))

	plan, err := d.ExplainQuery(context.Background(), "SELECT name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SELECT name FROM users",
		"  |--Index Scan(OBJECT:([testdb].[dbo].[users].[ix_users_name]))",
	}, plan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoverSchemaAssemblesSnapshot(t *testing.T) {
	d, mock := newMockDataSource(t)

	mock.ExpectPing()

	tableRows := sqlmock.NewRows([]string{"table_schema", "table_name", "table_comment"}).
		AddRow("dbo", "orders", nil).
		AddRow("dbo", "users", "Registered accounts").
		AddRow("sales", "targets", nil)
	mock.ExpectQuery(tablesQuery).WillReturnRows(tableRows)

	columnRows := sqlmock.NewRows([]string{
		"table_schema", "table_name", "column_name", "data_type",
		"is_nullable", "is_primary_key", "column_default", "column_comment",
	}).
		AddRow("dbo", "orders", "id", "int", 0, 1, nil, nil).
		AddRow("dbo", "orders", "user_id", "int", 0, 0, nil, nil).
		AddRow("dbo", "users", "id", "int", 0, 1, nil, nil).
		AddRow("dbo", "users", "name", "nvarchar", 1, 0, nil, "Display name").
		AddRow("sales", "targets", "quarter", "varchar", 0, 1, nil, nil)
	mock.ExpectQuery(columnsQuery).WillReturnRows(columnRows)

	fkRows := sqlmock.NewRows([]string{
		"source_schema", "source_table", "source_column",
		"target_schema", "target_table", "target_column",
	}).
		AddRow("dbo", "orders", "user_id", "dbo", "users", "id")
	mock.ExpectQuery(foreignKeysQuery).WillReturnRows(fkRows)

	schema, err := d.DiscoverSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, schema.Tables, 3)

	orders := schema.Tables[0]
	assert.Equal(t, "orders", orders.Name)
	assert.Equal(t, []string{"id"}, orders.PrimaryKeys)
	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "user_id", orders.ForeignKeys[0].Column)
	assert.Equal(t, "users", orders.ForeignKeys[0].ReferencedTable)
	assert.Equal(t, "id", orders.ForeignKeys[0].ReferencedColumn)

	users := schema.Tables[1]
	assert.Equal(t, "users", users.Name)
	require.NotNil(t, users.Description)
	assert.Equal(t, "Registered accounts", *users.Description)
	require.Len(t, users.Columns, 2)
	assert.Equal(t, "INTEGER", users.Columns[0].Type)
	assert.True(t, users.Columns[0].IsPrimary)
	assert.Equal(t, "VARCHAR", users.Columns[1].Type)
	assert.True(t, users.Columns[1].Nullable)
	require.NotNil(t, users.Columns[1].Comment)
	assert.Equal(t, "Display name", *users.Columns[1].Comment)

	// Non-default schemas keep their qualifier in the display name.
	assert.Equal(t, "sales.targets", schema.Tables[2].Name)
	assert.False(t, schema.Timestamp.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}
