// Package postgres implements the datasource.DataSource interface for
// PostgreSQL using pgx connection pooling.
package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// DataSource provides PostgreSQL schema discovery and query execution
// backed by a pgxpool.Pool.
type DataSource struct {
	cfg    config.DatabaseConfig
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New creates a PostgreSQL data source. Pool construction is lazy: no
// connection is attempted until the first Ping or query, so the engine
// starts even when the database is down.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DataSource, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, apperrors.NewConnectionError("invalid postgres connection string", err)
	}

	poolCfg.MaxConns = cfg.MaxConnections
	poolCfg.MinConns = cfg.MinConnections
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperrors.NewConnectionError("failed to create postgres pool", err)
	}

	return &DataSource{
		cfg:    cfg,
		pool:   pool,
		logger: logger.Named("postgres"),
	}, nil
}

// Ping verifies the database is reachable with valid credentials.
func (d *DataSource) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
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
	d.pool.Close()
	return nil
}

const tablesQuery = `
	SELECT
		t.table_schema,
		t.table_name,
		obj_description(c.oid) AS table_comment
	FROM information_schema.tables t
	LEFT JOIN pg_namespace n ON n.nspname = t.table_schema
	LEFT JOIN pg_class c ON c.relname = t.table_name AND c.relnamespace = n.oid
	WHERE t.table_type = 'BASE TABLE'
	  AND t.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
	ORDER BY t.table_schema, t.table_name
`

// columnsQuery resolves primary keys through pg_index.indisprimary, which
// detects PKs even when an ORM created them as unique indexes. Composite
// keys yield one row per member column. Column comments come through
// pg_description keyed on ordinal position.
const columnsQuery = `
	SELECT
		c.table_schema,
		c.table_name,
		c.column_name,
		c.data_type,
		c.udt_name,
		c.is_nullable = 'YES' AS is_nullable,
		COALESCE(pk.is_pk, false) AS is_primary_key,
		c.column_default,
		pgd.description AS column_comment
	FROM information_schema.columns c
	LEFT JOIN (
		SELECT n.nspname AS table_schema, t.relname AS table_name, a.attname AS column_name, true AS is_pk
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE ix.indisprimary = true
	) pk ON pk.table_schema = c.table_schema
	    AND pk.table_name = c.table_name
	    AND pk.column_name = c.column_name
	LEFT JOIN pg_catalog.pg_statio_all_tables st
		ON st.schemaname = c.table_schema AND st.relname = c.table_name
	LEFT JOIN pg_catalog.pg_description pgd
		ON pgd.objoid = st.relid AND pgd.objsubid = c.ordinal_position
	WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
	ORDER BY c.table_schema, c.table_name, c.ordinal_position
`

const foreignKeysQuery = `
	SELECT
		kcu.table_schema AS source_schema,
		kcu.table_name AS source_table,
		kcu.column_name AS source_column,
		ccu.table_schema AS target_schema,
		ccu.table_name AS target_table,
		ccu.column_name AS target_column
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage ccu
		ON tc.constraint_name = ccu.constraint_name
		AND tc.table_schema = ccu.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
	  AND tc.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
`

// DiscoverSchema reads the full catalog in three bulk queries (tables,
// columns, foreign keys) and assembles the snapshot in memory. A ping
// runs first so an unreachable database reports as a connection failure
// rather than a failed catalog query.
func (d *DataSource) DiscoverSchema(ctx context.Context) (*models.DatabaseSchema, error) {
	if err := d.pool.Ping(ctx); err != nil {
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
	rows, err := d.pool.Query(ctx, tablesQuery)
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
	rows, err := d.pool.Query(ctx, columnsQuery)
	if err != nil {
		return apperrors.NewQueryError("failed to query columns", err)
	}
	defer rows.Close()

	for rows.Next() {
		var schemaName, tableName, columnName, dataType, udtName string
		var nullable, isPrimary bool
		var defaultValue, comment *string
		if err := rows.Scan(&schemaName, &tableName, &columnName, &dataType, &udtName,
			&nullable, &isPrimary, &defaultValue, &comment); err != nil {
			return apperrors.NewQueryError("failed to scan column row", err)
		}
		t, ok := index[schemaName+"."+tableName]
		if !ok {
			// Column belongs to a view; only base tables are discovered.
			continue
		}
		t.Columns = append(t.Columns, models.TableColumn{
			Name:         columnName,
			Type:         columnTypeName(dataType, udtName),
			Nullable:     nullable,
			IsPrimary:    isPrimary,
			DefaultValue: defaultValue,
			Comment:      comment,
		})
		if isPrimary {
			t.PrimaryKeys = append(t.PrimaryKeys, columnName)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewQueryError("failed to iterate columns", err)
	}
	return nil
}

func (d *DataSource) discoverForeignKeys(ctx context.Context, index map[string]*models.TableSchema) error {
	rows, err := d.pool.Query(ctx, foreignKeysQuery)
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

// displayTableName returns the bare table name for the default schema
// and schema-qualified names everywhere else, so generated SQL reads
// naturally against typical databases.
func displayTableName(schemaName, tableName string) string {
	if schemaName == "" || schemaName == "public" {
		return tableName
	}
	return schemaName + "." + tableName
}

// columnTypeName resolves the reported type to something readable:
// user-defined types (enums) surface their actual name and arrays render
// as element[].
func columnTypeName(dataType, udtName string) string {
	switch dataType {
	case "USER-DEFINED":
		return udtName
	case "ARRAY":
		return strings.TrimPrefix(udtName, "_") + "[]"
	default:
		return dataType
	}
}
