package datasource

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
)

// Factory creates a DataSource from connection configuration. The returned
// handle connects lazily; construction must not require a reachable server.
type Factory func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (DataSource, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(driver string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = factory
}

// New creates a DataSource for the configured driver.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (DataSource, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Driver]
	registryMu.RUnlock()

	if !ok {
		return nil, apperrors.NewConfigurationError(
			"unsupported database driver %q (registered: %v)", cfg.Driver, RegisteredDrivers())
	}
	return factory(ctx, cfg, logger)
}

// IsRegistered checks whether a driver is available.
func IsRegistered(driver string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[driver]
	return ok
}

// RegisteredDrivers returns the registered driver names, sorted.
func RegisteredDrivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	drivers := make([]string, 0, len(registry))
	for driver := range registry {
		drivers = append(drivers, driver)
	}
	sort.Strings(drivers)
	return drivers
}
