// Package testhelpers provides a shared PostgreSQL container for
// integration tests, seeded with a small commerce schema that exercises
// comments, enum columns, array columns and foreign keys.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sqlmind/sqlmind-engine/pkg/config"
)

// PostgresImage is the stock image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// seedSchema is applied once after the container starts. It deliberately
// covers the catalog features schema discovery must handle: column comments,
// user-defined enum types, array columns and composite foreign keys.
const seedSchema = `
CREATE TYPE order_status AS ENUM ('pending', 'shipped', 'delivered');

CREATE TABLE users (
    id serial PRIMARY KEY,
    email text NOT NULL,
    name varchar(120),
    tags text[],
    created_at timestamptz NOT NULL DEFAULT now()
);
COMMENT ON COLUMN users.email IS 'Unique login address';

CREATE TABLE orders (
    id serial PRIMARY KEY,
    user_id integer NOT NULL REFERENCES users(id),
    status order_status NOT NULL DEFAULT 'pending',
    total numeric(10,2) NOT NULL
);
COMMENT ON COLUMN orders.status IS 'Lifecycle state of the order';

INSERT INTO users (email, name, tags) VALUES
    ('ada@example.com', 'Ada', ARRAY['admin','early']),
    ('grace@example.com', 'Grace', NULL),
    ('alan@example.com', 'Alan', ARRAY['beta']);

INSERT INTO orders (user_id, status, total) VALUES
    (1, 'pending', 10.00),
    (1, 'shipped', 25.50),
    (2, 'delivered', 99.99);
`

// TestDB holds a shared test database container and connection pool.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
	Host      string
	Port      int
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

// DatabaseConfig returns connection settings pointing at the container,
// ready to hand to the datasource registry.
func (db *TestDB) DatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:         "postgres",
		Host:           db.Host,
		Port:           db.Port,
		Name:           "test_data",
		User:           "sqlmind",
		Password:       "test_password",
		SSLMode:        "disable",
		MaxConnections: 5,
		MinConnections: 1,
	}
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "test_data",
			"POSTGRES_USER":     "sqlmind",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://sqlmind:test_password@%s:%s/test_data?sslmode=disable",
		host, port.Port())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// The server restarts once during init; retry until it settles.
	var pingErr error
	for i := 0; i < 10; i++ {
		if pingErr = pool.Ping(ctx); pingErr == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if pingErr != nil {
		return nil, fmt.Errorf("database never became reachable: %w", pingErr)
	}

	if _, err := pool.Exec(ctx, seedSchema); err != nil {
		return nil, fmt.Errorf("failed to seed test schema: %w", err)
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
		Host:      host,
		Port:      port.Int(),
	}, nil
}
