package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	_ "github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource/mssql"
	_ "github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource/postgres"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/handlers"
	"github.com/sqlmind/sqlmind-engine/pkg/llm"
	"github.com/sqlmind/sqlmind-engine/pkg/logging"
	"github.com/sqlmind/sqlmind-engine/pkg/mcp"
	"github.com/sqlmind/sqlmind-engine/pkg/mcp/tools"
	"github.com/sqlmind/sqlmind-engine/pkg/middleware"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load .env for local development before config reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)),
		zap.String("default_provider", cfg.LLM.Provider),
		zap.Int("query_timeout_ms", cfg.Query.TimeoutMS),
		zap.Int("max_result_rows", cfg.Query.MaxResultRows),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := datasource.New(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create datasource", zap.Error(err))
	}
	defer func() { _ = ds.Close() }()

	gemini := llm.NewGeminiClient(cfg.LLM, logger)
	claude := llm.NewClaudeClient(cfg.LLM, logger)
	router := llm.NewRouter(gemini, claude, cfg.LLM.Provider, logger)

	// Curated few-shot examples are optional; a broken file is not fatal.
	var examples []models.QueryExample
	if cfg.LLM.ExamplesFile != "" {
		examples, err = llm.LoadExamples(cfg.LLM.ExamplesFile)
		if err != nil {
			logger.Warn("Failed to load examples file",
				zap.String("path", cfg.LLM.ExamplesFile),
				zap.Error(err))
		} else {
			logger.Info("Loaded query examples", zap.Int("count", len(examples)))
		}
	}

	history := services.NewQueryHistory(services.DefaultHistoryCapacity)
	schemaService := services.NewSchemaService(ds, logger)
	queryService := services.NewQueryService(ds, schemaService, router, history, examples, cfg.Query, logger)
	connectionService := services.NewConnectionService(ds, router, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	queryHandler := handlers.NewQueryHandler(queryService, logger)
	queryHandler.RegisterRoutes(mux)

	schemaHandler := handlers.NewSchemaHandler(schemaService, logger)
	schemaHandler.RegisterRoutes(mux)

	connectionHandler := handlers.NewConnectionHandler(connectionService, logger)
	connectionHandler.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer("sqlmind-engine", cfg.Version, logger)
		tools.RegisterAll(mcpServer.MCP(), &tools.ToolDeps{
			QueryService:      queryService,
			SchemaService:     schemaService,
			ConnectionService: connectionService,
			Logger:            logger,
		})
		mcpHandler := handlers.NewMCPHandler(mcpServer, logger)
		mcpHandler.RegisterRoutes(mux)
		logger.Info("MCP endpoint enabled", zap.String("path", "/mcp"))
	}

	handler := middleware.RequestID()(middleware.RequestLogger(logger)(middleware.Metrics()(mux)))

	// The write timeout must outlive the query timeout or slow queries get
	// cut off mid-response.
	writeTimeout := time.Duration(cfg.Query.TimeoutMS)*time.Millisecond + 30*time.Second

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Starting sqlmind-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("Shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
}
