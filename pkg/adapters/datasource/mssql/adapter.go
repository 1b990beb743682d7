// Package mssql implements the datasource.DataSource interface for
// Microsoft SQL Server via database/sql and the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// DataSource provides SQL Server schema discovery and query execution.
type DataSource struct {
	cfg    config.DatabaseConfig
	db     *sql.DB
	logger *zap.Logger
}

// New creates a SQL Server data source. sql.Open does not connect, so
// the engine starts even when the database is down; the first Ping or
// query reveals connectivity problems.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DataSource, error) {
	db, err := sql.Open("sqlserver", cfg.ConnectionString())
	if err != nil {
		return nil, apperrors.NewConnectionError("invalid sqlserver connection string", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConnections))
	// database/sql has no minimum pool size; the idle cap is the
	// closest knob.
	db.SetMaxIdleConns(int(cfg.MinConnections))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &DataSource{
		cfg:    cfg,
		db:     db,
		logger: logger.Named("mssql"),
	}, nil
}

// Ping verifies the database is reachable with valid credentials.
func (d *DataSource) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return apperrors.NewConnectionError("failed to connect to database", err)
	}
	return nil
}

// DatabaseName returns the configured database name.
func (d *DataSource) DatabaseName() string {
	return d.cfg.Name
}

// Close releases the connection pool.
func (d *DataSource) Close() error {
	return d.db.Close()
}

// Table and column descriptions come from the MS_Description extended
// property, SQL Server's counterpart of COMMENT ON.
const tablesQuery = `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS table_schema,
	    t.name AS table_name,
	    CAST(ep.value AS NVARCHAR(MAX)) AS table_comment
	FROM sys.tables t
	LEFT JOIN sys.extended_properties ep
	    ON ep.class = 1 AND ep.major_id = t.object_id AND ep.minor_id = 0
	    AND ep.name = 'MS_Description'
	WHERE t.is_ms_shipped = 0
	ORDER BY table_schema, table_name
`

const columnsQuery = `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS table_schema,
	    t.name AS table_name,
	    c.name AS column_name,
	    tp.name AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key,
	    OBJECT_DEFINITION(c.default_object_id) AS column_default,
	    CAST(ep.value AS NVARCHAR(MAX)) AS column_comment
	FROM sys.tables t
	INNER JOIN sys.columns c ON c.object_id = t.object_id
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON pk.object_id = c.object_id AND pk.column_id = c.column_id
	LEFT JOIN sys.extended_properties ep
	    ON ep.class = 1 AND ep.major_id = c.object_id AND ep.minor_id = c.column_id
	    AND ep.name = 'MS_Description'
	WHERE t.is_ms_shipped = 0
	ORDER BY table_schema, table_name, c.column_id
`

const foreignKeysQuery = `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(fk.schema_id) AS source_schema,
	    OBJECT_NAME(fk.parent_object_id) AS source_table,
	    COL_NAME(fkc.parent_object_id, fkc.parent_column_id) AS source_column,
	    SCHEMA_NAME(rt.schema_id) AS target_schema,
	    OBJECT_NAME(fk.referenced_object_id) AS target_table,
	    COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) AS target_column
	FROM sys.foreign_keys fk
	INNER JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
	INNER JOIN sys.tables rt ON fk.referenced_object_id = rt.object_id
	WHERE fk.is_ms_shipped = 0
	ORDER BY source_schema, source_table, fk.name, fkc.constraint_column_id
`

// DiscoverSchema reads the full catalog in three bulk queries (tables,
// columns, foreign keys) and assembles the snapshot in memory. A ping
// runs first so an unreachable database reports as a connection failure
// rather than a failed catalog query.
func (d *DataSource) DiscoverSchema(ctx context.Context) (*models.DatabaseSchema, error) {
	if err := d.db.PingContext(ctx); err != nil {
		return nil, apperrors.NewConnectionError("failed to connect to database", err)
	}

	start := time.Now()

	tables, index, err := d.discoverTables(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.discoverColumns(ctx, index); err != nil {
		return nil, err
	}
	if err := d.discoverForeignKeys(ctx, index); err != nil {
		return nil, err
	}

	schema := &models.DatabaseSchema{
		Tables:    make([]models.TableSchema, len(tables)),
		Timestamp: time.Now().UTC(),
	}
	for i, t := range tables {
		schema.Tables[i] = *t
	}

	d.logger.Info("schema discovery complete",
		zap.String("database", d.cfg.Name),
		zap.Int("tables", len(tables)),
		zap.Duration("duration", time.Since(start)))

	return schema, nil
}

func (d *DataSource) discoverTables(ctx context.Context) ([]*models.TableSchema, map[string]*models.TableSchema, error) {
	rows, err := d.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, nil, apperrors.NewQueryError("failed to query tables", err)
	}
	defer rows.Close()

	var tables []*models.TableSchema
	index := make(map[string]*models.TableSchema)
	for rows.Next() {
		var schemaName, tableName string
		var comment *string
		if err := rows.Scan(&schemaName, &tableName, &comment); err != nil {
			return nil, nil, apperrors.NewQueryError("failed to scan table row", err)
		}
		t := &models.TableSchema{
			Name:        displayTableName(schemaName, tableName),
			SchemaName:  schemaName,
			Columns:     []models.TableColumn{},
			PrimaryKeys: []string{},
			ForeignKeys: []models.ForeignKey{},
			Description: comment,
		}
		tables = append(tables, t)
		index[schemaName+"."+tableName] = t
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewQueryError("failed to iterate tables", err)
	}
	return tables, index, nil
}

func (d *DataSource) discoverColumns(ctx context.Context, index map[string]*models.TableSchema) error {
	rows, err := d.db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return apperrors.NewQueryError("failed to query columns", err)
	}
	defer rows.Close()

	for rows.Next() {
		var schemaName, tableName, columnName, dataType string
		var nullable, isPrimary int
		var defaultValue, comment *string
		if err := rows.Scan(&schemaName, &tableName, &columnName, &dataType,
			&nullable, &isPrimary, &defaultValue, &comment); err != nil {
			return apperrors.NewQueryError("failed to scan column row", err)
		}
		t, ok := index[schemaName+"."+tableName]
		if !ok {
			continue
		}
		t.Columns = append(t.Columns, models.TableColumn{
			Name:         columnName,
			Type:         mapSQLServerType(dataType),
			Nullable:     nullable == 1,
			IsPrimary:    isPrimary == 1,
			DefaultValue: defaultValue,
			Comment:      comment,
		})
		if isPrimary == 1 {
			t.PrimaryKeys = append(t.PrimaryKeys, columnName)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewQueryError("failed to iterate columns", err)
	}
	return nil
}

func (d *DataSource) discoverForeignKeys(ctx context.Context, index map[string]*models.TableSchema) error {
	rows, err := d.db.QueryContext(ctx, foreignKeysQuery)
	if err != nil {
		return apperrors.NewQueryError("failed to query foreign keys", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sourceSchema, sourceTable, sourceColumn string
		var targetSchema, targetTable, targetColumn string
		if err := rows.Scan(&sourceSchema, &sourceTable, &sourceColumn,
			&targetSchema, &targetTable, &targetColumn); err != nil {
			return apperrors.NewQueryError("failed to scan foreign key row", err)
		}
		t, ok := index[sourceSchema+"."+sourceTable]
		if !ok {
			continue
		}
		t.ForeignKeys = append(t.ForeignKeys, models.ForeignKey{
			Column:           sourceColumn,
			ReferencedTable:  displayTableName(targetSchema, targetTable),
			ReferencedColumn: targetColumn,
		})
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewQueryError("failed to iterate foreign keys", err)
	}
	return nil
}
