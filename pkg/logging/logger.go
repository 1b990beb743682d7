package logging

import "go.uber.org/zap"

// NewLogger builds the process logger for the given environment. Local
// environments get the human-readable development encoder at debug level;
// everything else gets production JSON at info.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}

	return zap.NewProductionConfig().Build()
}
