package mssql

import (
	"context"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
)

func init() {
	datasource.Register("mssql", func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (datasource.DataSource, error) {
		return New(ctx, cfg, logger)
	})
}
