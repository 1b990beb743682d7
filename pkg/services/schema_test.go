package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

func snapshotOf(tables ...models.TableSchema) *models.DatabaseSchema {
	return &models.DatabaseSchema{Tables: tables, Timestamp: time.Now().UTC()}
}

func tableNamed(name string, columns ...string) models.TableSchema {
	table := models.TableSchema{Name: name}
	for _, col := range columns {
		table.Columns = append(table.Columns, models.TableColumn{Name: col, Type: "text"})
	}
	return table
}

func TestSchemaService_Introspect_CachesSnapshot(t *testing.T) {
	ds := datasource.NewMockDataSource()
	ds.DiscoverSchemaFunc = func(ctx context.Context) (*models.DatabaseSchema, error) {
		return snapshotOf(tableNamed("users", "id", "name")), nil
	}
	svc := NewSchemaService(ds, zap.NewNop())

	first, err := svc.Introspect(context.Background(), false)
	require.NoError(t, err)
	second, err := svc.Introspect(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.DiscoverSchemaCalls, "second call should be served from cache")
	assert.Same(t, first, second)
	assert.Same(t, first, svc.CachedSchema())
}

func TestSchemaService_Introspect_DerivesEntityNames(t *testing.T) {
	ds := datasource.NewMockDataSource()
	ds.DiscoverSchemaFunc = func(ctx context.Context) (*models.DatabaseSchema, error) {
		return snapshotOf(
			tableNamed("users", "id"),
			tableNamed("categories", "id"),
			tableNamed("sales.targets", "id"),
		), nil
	}
	svc := NewSchemaService(ds, zap.NewNop())

	schema, err := svc.Introspect(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, schema.Tables, 3)

	assert.Equal(t, "User", schema.Tables[0].EntityName)
	assert.Equal(t, "Category", schema.Tables[1].EntityName)
	assert.Equal(t, "Target", schema.Tables[2].EntityName)
}

func TestSchemaService_Introspect_ForceRefreshRecordsDrift(t *testing.T) {
	call := 0
	ds := datasource.NewMockDataSource()
	ds.DiscoverSchemaFunc = func(ctx context.Context) (*models.DatabaseSchema, error) {
		call++
		if call == 1 {
			return snapshotOf(tableNamed("users", "id"), tableNamed("orders", "id")), nil
		}
		return snapshotOf(tableNamed("users", "id", "email"), tableNamed("products", "id")), nil
	}
	svc := NewSchemaService(ds, zap.NewNop())

	_, err := svc.Introspect(context.Background(), false)
	require.NoError(t, err)
	require.Nil(t, svc.LastDiff(), "no drift before any refresh")

	refreshed, err := svc.Introspect(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.DiscoverSchemaCalls)
	require.Len(t, refreshed.Tables, 2)

	diff := svc.LastDiff()
	require.NotNil(t, diff)
	assert.Equal(t, []string{"products"}, diff.AddedTables)
	assert.Equal(t, []string{"orders"}, diff.RemovedTables)
	assert.Equal(t, []string{"users.email"}, diff.AddedColumns)
	assert.Empty(t, diff.RemovedColumns)
}

func TestSchemaService_ClearCache(t *testing.T) {
	ds := datasource.NewMockDataSource()
	ds.DiscoverSchemaFunc = func(ctx context.Context) (*models.DatabaseSchema, error) {
		return snapshotOf(tableNamed("users", "id")), nil
	}
	svc := NewSchemaService(ds, zap.NewNop())

	_, err := svc.Introspect(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, svc.CachedSchema())

	svc.ClearCache()
	assert.Nil(t, svc.CachedSchema())
	assert.Nil(t, svc.LastDiff())

	_, err = svc.Introspect(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.DiscoverSchemaCalls, "cleared cache should trigger rediscovery")
}

func TestSchemaService_Introspect_PropagatesDiscoveryError(t *testing.T) {
	ds := datasource.NewMockDataSource()
	ds.DiscoverSchemaFunc = func(ctx context.Context) (*models.DatabaseSchema, error) {
		return nil, apperrors.NewConnectionError("failed to connect to database", errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	}
	svc := NewSchemaService(ds, zap.NewNop())

	_, err := svc.Introspect(context.Background(), false)
	require.Error(t, err)

	var connErr *apperrors.ConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.Nil(t, svc.CachedSchema(), "failed discovery must not populate the cache")
}

func TestToEntityName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"users", "User"},
		{"orders", "Order"},
		{"categories", "Category"},
		{"people", "Person"},
		{"public.users", "User"},
		{"sales.targets", "Target"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := toEntityName(tc.in); got != tc.want {
			t.Errorf("toEntityName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
