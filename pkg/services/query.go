package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/audit"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/llm"
	"github.com/sqlmind/sqlmind-engine/pkg/logging"
	"github.com/sqlmind/sqlmind-engine/pkg/metrics"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/prompts"
	"github.com/sqlmind/sqlmind-engine/pkg/sqlcheck"
)

// QueryRequest is a natural-language question plus optional routing and
// binding hints. Params are bound into the generated SQL when it uses
// placeholders; most questions produce self-contained statements.
type QueryRequest struct {
	Question string `json:"naturalLanguageQuery"`
	Provider string `json:"provider,omitempty"`
	Params   []any  `json:"params,omitempty"`
}

// QueryResponse carries the generated SQL, its provenance, and the
// execution outcome.
type QueryResponse struct {
	SQL             string              `json:"sql"`
	Explanation     string              `json:"explanation"`
	Confidence      string              `json:"confidence"`
	Provider        string              `json:"provider"`
	Model           string              `json:"model"`
	Rows            []map[string]any    `json:"results"`
	RowCount        int                 `json:"rowCount"`
	Fields          []models.ColumnInfo `json:"fields"`
	ExecutionTimeMS int64               `json:"executionTime"`
}

// QueryService runs the full question-to-rows pipeline: schema context,
// SQL generation, read-only validation, bounded execution.
type QueryService interface {
	// Ask generates SQL for the question, validates it, and executes it.
	// When validation rejects the generated SQL, the response is returned
	// alongside the error with SQL and Explanation populated so callers
	// can surface what was generated; for all other failures the response
	// is nil.
	Ask(ctx context.Context, req *QueryRequest) (*QueryResponse, error)

	// Explain validates sql and returns the database's plan lines. It
	// never executes the statement itself.
	Explain(ctx context.Context, sql string) ([]string, error)
}

type queryService struct {
	ds        datasource.DataSource
	schemaSvc SchemaService
	router    *llm.Router
	history   *QueryHistory
	examples  []models.QueryExample
	queryCfg  config.QueryConfig
	logger    *zap.Logger
	auditor   *audit.SecurityAuditor
}

// NewQueryService creates a query service over the given datasource and
// provider router. examples seeds the prompt history window until real
// session history accumulates; nil is fine.
func NewQueryService(
	ds datasource.DataSource,
	schemaSvc SchemaService,
	router *llm.Router,
	history *QueryHistory,
	examples []models.QueryExample,
	queryCfg config.QueryConfig,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		ds:        ds,
		schemaSvc: schemaSvc,
		router:    router,
		history:   history,
		examples:  examples,
		queryCfg:  queryCfg,
		logger:    logger.Named("query-service"),
		auditor:   audit.NewSecurityAuditor(logger),
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) Ask(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("naturalLanguageQuery is required")
	}
	if !s.router.HasProvider() {
		return nil, apperrors.NewConfigurationError(
			"no LLM provider configured: set GEMINI_API_KEY or CLAUDE_API_KEY")
	}

	schema, err := s.schemaSvc.Introspect(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(schema.Tables) == 0 {
		return nil, fmt.Errorf("database %q has no tables to query", s.ds.DatabaseName())
	}

	genReq := &models.SQLGenerationRequest{
		Question:   question,
		SchemaText: prompts.FormatSchema(schema),
		History:    s.promptHistory(),
	}

	gen, err := s.router.GenerateSQL(ctx, genReq, req.Provider)
	if err != nil {
		metrics.ObserveGeneration("", metrics.OutcomeError)
		return nil, err
	}
	metrics.ObserveGeneration(gen.Provider, metrics.OutcomeSuccess)

	s.logger.Info("Generated SQL",
		zap.String("provider", gen.Provider),
		zap.String("model", gen.Model),
		zap.String("confidence", gen.Confidence),
		zap.String("sql", logging.SanitizeQuery(gen.SQL)))

	resp := &QueryResponse{
		SQL:         gen.SQL,
		Explanation: gen.Explanation,
		Confidence:  gen.Confidence,
		Provider:    gen.Provider,
		Model:       gen.Model,
	}

	if err := sqlcheck.Validate(gen.SQL); err != nil {
		metrics.ObserveQuery(metrics.OutcomeRejected, 0)
		s.logger.Warn("Rejected generated SQL",
			zap.String("provider", gen.Provider),
			zap.String("reason", err.Error()),
			zap.String("sql", logging.SanitizeQuery(gen.SQL)))
		s.auditor.LogStatementRejected(ctx, audit.StatementRejectedDetails{
			SQL:      gen.SQL,
			Reason:   err.Error(),
			Provider: gen.Provider,
			Question: question,
		})
		return resp, err
	}
	if finding, err := sqlcheck.ScreenParams(req.Params); err != nil {
		metrics.ObserveQuery(metrics.OutcomeRejected, 0)
		s.logger.Warn("Rejected bound parameters", zap.String("reason", err.Error()))
		s.auditor.LogInjectionAttempt(ctx, audit.SQLInjectionDetails{
			ParamPosition: finding.Position,
			ParamValue:    finding.Value,
			Fingerprint:   finding.Fingerprint,
			Question:      question,
		})
		return resp, err
	}

	result, err := s.run(ctx, gen.SQL, req.Params)
	if err != nil {
		if apperrors.IsTimeout(err) {
			metrics.ObserveQuery(metrics.OutcomeTimeout, 0)
		} else {
			metrics.ObserveQuery(metrics.OutcomeError, 0)
		}
		return nil, err
	}
	metrics.ObserveQuery(metrics.OutcomeSuccess, result.ExecutionTimeMS)

	resp.Rows = result.Rows
	resp.RowCount = result.RowCount
	resp.Fields = result.Fields
	resp.ExecutionTimeMS = result.ExecutionTimeMS

	s.history.Record(question, gen.SQL)

	s.logger.Info("Executed generated SQL",
		zap.Int("rows", result.RowCount),
		zap.Int64("duration_ms", result.ExecutionTimeMS))
	s.auditor.LogQueryExecution(ctx, audit.QueryExecutionDetails{
		Question:        question,
		SQL:             gen.SQL,
		Provider:        gen.Provider,
		RowCount:        result.RowCount,
		ExecutionTimeMS: result.ExecutionTimeMS,
	})

	return resp, nil
}

func (s *queryService) Explain(ctx context.Context, sqlText string) ([]string, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, fmt.Errorf("sql is required")
	}
	if err := sqlcheck.Validate(sqlText); err != nil {
		return nil, err
	}

	plan, err := s.ds.ExplainQuery(ctx, sqlText)
	if err != nil {
		return nil, apperrors.NewExecutionError("failed to explain query", err)
	}
	return plan, nil
}

// run executes validated SQL under the configured statement timeout and
// stamps the observed duration onto the result.
func (s *queryService) run(ctx context.Context, sqlText string, params []any) (*models.QueryResult, error) {
	timeout := time.Duration(s.queryCfg.TimeoutMS) * time.Millisecond
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := s.ds.ExecuteQuery(execCtx, sqlText, params, s.queryCfg.MaxResultRows)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(s.queryCfg.TimeoutMS)
		}
		return nil, apperrors.NewExecutionError("failed to execute query", err)
	}

	result.ExecutionTimeMS = time.Since(start).Milliseconds()
	return result, nil
}

// promptHistory merges the curated examples with recorded session history.
// The prompt builder keeps only the most recent entries, so real history
// displaces the seeds once enough has accumulated.
func (s *queryService) promptHistory() []models.QueryExample {
	recent := s.history.Recent()
	if len(s.examples) == 0 {
		return recent
	}

	merged := make([]models.QueryExample, 0, len(s.examples)+len(recent))
	merged = append(merged, s.examples...)
	merged = append(merged, recent...)
	return merged
}
