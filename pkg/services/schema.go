package services

import (
	"context"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	"github.com/sqlmind/sqlmind-engine/pkg/metrics"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// SchemaService owns the process-wide snapshot of the target database
// schema. Discovery walks the catalog tables, so the result is cached in
// a single slot and reused until a caller forces a refresh.
type SchemaService interface {
	// Introspect returns the schema snapshot, discovering it on first use.
	// forceRefresh bypasses the cache and publishes a fresh snapshot; when
	// the refresh replaces an existing snapshot the drift between the two
	// is recorded and retrievable via LastDiff.
	Introspect(ctx context.Context, forceRefresh bool) (*models.DatabaseSchema, error)

	// CachedSchema returns the current snapshot without touching the
	// database, or nil when nothing has been discovered yet.
	CachedSchema() *models.DatabaseSchema

	// LastDiff returns the drift recorded by the most recent refresh that
	// replaced a snapshot, or nil when none has.
	LastDiff() *models.SchemaDiff

	// ClearCache drops the snapshot so the next Introspect rediscovers.
	ClearCache()
}

type schemaService struct {
	ds     datasource.DataSource
	logger *zap.Logger

	mu       sync.RWMutex
	cached   *models.DatabaseSchema
	lastDiff *models.SchemaDiff
}

// NewSchemaService creates a schema service backed by the given datasource.
func NewSchemaService(ds datasource.DataSource, logger *zap.Logger) SchemaService {
	return &schemaService{
		ds:     ds,
		logger: logger.Named("schema-service"),
	}
}

var _ SchemaService = (*schemaService)(nil)

func (s *schemaService) Introspect(ctx context.Context, forceRefresh bool) (*models.DatabaseSchema, error) {
	if !forceRefresh {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
	}

	schema, err := s.ds.DiscoverSchema(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schema.Tables {
		schema.Tables[i].EntityName = toEntityName(schema.Tables[i].Name)
	}

	s.mu.Lock()
	previous := s.cached
	s.cached = schema
	var diff *models.SchemaDiff
	if previous != nil {
		diff = DiffSchemas(previous, schema)
		s.lastDiff = diff
	}
	s.mu.Unlock()

	if forceRefresh {
		metrics.IncrementSchemaRefresh()
	}
	if diff != nil && !diff.Empty() {
		s.logger.Info("Schema drift detected on refresh",
			zap.Strings("added_tables", diff.AddedTables),
			zap.Strings("removed_tables", diff.RemovedTables),
			zap.Strings("added_columns", diff.AddedColumns),
			zap.Strings("removed_columns", diff.RemovedColumns))
	}

	s.logger.Info("Schema snapshot published",
		zap.String("database", s.ds.DatabaseName()),
		zap.Int("tables", len(schema.Tables)),
		zap.Bool("forced", forceRefresh))

	return schema, nil
}

func (s *schemaService) CachedSchema() *models.DatabaseSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

func (s *schemaService) LastDiff() *models.SchemaDiff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDiff
}

func (s *schemaService) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.lastDiff = nil
	s.mu.Unlock()

	s.logger.Info("Schema cache cleared")
}

// toEntityName converts a table name to an entity name.
// Examples: "public.users" -> "User", "orders" -> "Order", "categories" -> "Category"
func toEntityName(tableName string) string {
	name := tableName
	if idx := strings.LastIndex(tableName, "."); idx >= 0 {
		name = tableName[idx+1:]
	}

	name = inflection.Singular(name)

	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}

	return name
}
