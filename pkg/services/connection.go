package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	"github.com/sqlmind/sqlmind-engine/pkg/llm"
	"github.com/sqlmind/sqlmind-engine/pkg/logging"
)

// DatabaseStatus reports reachability of the configured database.
type DatabaseStatus struct {
	Connected bool   `json:"connected"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

// LLMStatus reports which providers hold credentials.
type LLMStatus struct {
	ConfiguredProviders []string `json:"configuredProviders"`
	HasProvider         bool     `json:"hasProvider"`
}

// ConnectionStatus is the combined health picture of both upstream
// dependencies.
type ConnectionStatus struct {
	Database DatabaseStatus `json:"database"`
	LLM      LLMStatus      `json:"llm"`
}

// ConnectionService probes the database and reports provider credentials.
type ConnectionService interface {
	// Status checks both dependencies. Failures are reported inside the
	// status, never as an error.
	Status(ctx context.Context) *ConnectionStatus
}

type connectionService struct {
	ds     datasource.DataSource
	router *llm.Router
	logger *zap.Logger
}

// NewConnectionService creates a connection status service.
func NewConnectionService(ds datasource.DataSource, router *llm.Router, logger *zap.Logger) ConnectionService {
	return &connectionService{
		ds:     ds,
		router: router,
		logger: logger.Named("connection-service"),
	}
}

var _ ConnectionService = (*connectionService)(nil)

func (s *connectionService) Status(ctx context.Context) *ConnectionStatus {
	status := &ConnectionStatus{
		Database: DatabaseStatus{
			Database: s.ds.DatabaseName(),
		},
		LLM: LLMStatus{
			ConfiguredProviders: s.router.ConfiguredProviders(),
			HasProvider:         s.router.HasProvider(),
		},
	}

	if err := s.ds.Ping(ctx); err != nil {
		status.Database.Error = logging.SanitizeError(err)
		s.logger.Warn("Database ping failed", zap.Error(err))
	} else {
		status.Database.Connected = true
	}

	return status
}
