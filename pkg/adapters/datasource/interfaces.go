// Package datasource defines the driver-neutral surface the service layer
// talks to, plus the registry adapters attach themselves to. Adapter
// packages register via init(); importers pick them up with blank imports.
package datasource

import (
	"context"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// DataSource is one live connection handle to the target database.
// Each implementation owns its pool and must be closed when done.
type DataSource interface {
	// Ping verifies the database is reachable with valid credentials.
	Ping(ctx context.Context) error

	// DatabaseName returns the configured database name, for status reporting.
	DatabaseName() string

	// DiscoverSchema reads catalog metadata for every user table: columns,
	// primary keys, foreign keys, and comments.
	DiscoverSchema(ctx context.Context) (*models.DatabaseSchema, error)

	// ExecuteQuery runs already-validated SQL. maxRows caps the result set
	// in the driver's dialect when the text carries no explicit limit;
	// params are bound positionally ($1, $2, ...).
	ExecuteQuery(ctx context.Context, sqlText string, params []any, maxRows int) (*models.QueryResult, error)

	// ExplainQuery returns the execution plan for already-validated SQL,
	// one plan line per element.
	ExplainQuery(ctx context.Context, sqlText string) ([]string, error)

	// Close releases the connection pool.
	Close() error
}
