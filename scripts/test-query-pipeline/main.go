// test-query-pipeline runs a natural-language question through the full
// generation and execution pipeline against the configured database.
// It prints the generated SQL, the execution result, and optionally the
// database's plan for the statement.
//
// Usage:
//
//	go run ./scripts/test-query-pipeline -provider claude "revenue by month this year"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource"
	_ "github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource/mssql"
	_ "github.com/sqlmind/sqlmind-engine/pkg/adapters/datasource/postgres"
	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
	"github.com/sqlmind/sqlmind-engine/pkg/config"
	"github.com/sqlmind/sqlmind-engine/pkg/llm"
	"github.com/sqlmind/sqlmind-engine/pkg/models"
	"github.com/sqlmind/sqlmind-engine/pkg/services"
)

func main() {
	provider := flag.String("provider", "", "Force a provider (gemini or claude) instead of the configured default")
	showPlan := flag.Bool("plan", false, "Also print the database's execution plan for the generated SQL")
	maxRows := flag.Int("max-rows", 20, "Print at most this many result rows")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, `usage: test-query-pipeline [-provider name] [-plan] "question"`)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load("dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Keep operational logging quiet so the output below stays readable
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, _ := logConfig.Build()
	defer logger.Sync()

	ctx := context.Background()

	ds, err := datasource.New(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer ds.Close()

	gemini := llm.NewGeminiClient(cfg.LLM, logger)
	claude := llm.NewClaudeClient(cfg.LLM, logger)
	router := llm.NewRouter(gemini, claude, cfg.LLM.Provider, logger)

	var examples []models.QueryExample
	if cfg.LLM.ExamplesFile != "" {
		examples, _ = llm.LoadExamples(cfg.LLM.ExamplesFile)
	}

	history := services.NewQueryHistory(services.DefaultHistoryCapacity)
	schemaSvc := services.NewSchemaService(ds, logger)
	querySvc := services.NewQueryService(ds, schemaSvc, router, history, examples, cfg.Query, logger)

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("Query Pipeline Test")
	fmt.Printf("Database: %s (%s)\n", cfg.Database.Name, cfg.Database.Driver)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("\nQuestion: %s\n", question)

	start := time.Now()
	resp, err := querySvc.Ask(ctx, &services.QueryRequest{Question: question, Provider: *provider})
	if err != nil {
		if apperrors.IsValidation(err) && resp != nil {
			fmt.Println("\n--- Generated SQL (REJECTED) ---")
			fmt.Println(resp.SQL)
			fmt.Println("--- End Generated SQL ---")
			fmt.Printf("\nRejected: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "\nQuery failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("\nProvider: %s (%s)\n", resp.Provider, resp.Model)
	fmt.Printf("Confidence: %s\n", resp.Confidence)

	fmt.Println("\n--- Generated SQL ---")
	fmt.Println(resp.SQL)
	fmt.Println("--- End Generated SQL ---")

	if resp.Explanation != "" {
		fmt.Printf("\nExplanation: %s\n", resp.Explanation)
	}

	fmt.Printf("\nRows: %d (query %dms, total %dms)\n",
		resp.RowCount, resp.ExecutionTimeMS, time.Since(start).Milliseconds())
	printRows(resp, *maxRows)

	if *showPlan {
		plan, err := querySvc.Explain(ctx, resp.SQL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nExplain failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n--- Execution Plan ---")
		for _, line := range plan {
			fmt.Println(line)
		}
		fmt.Println("--- End Execution Plan ---")
	}
}

func printRows(resp *services.QueryResponse, max int) {
	if resp.RowCount == 0 {
		return
	}

	names := make([]string, len(resp.Fields))
	for i, f := range resp.Fields {
		names[i] = f.Name
	}
	header := strings.Join(names, " | ")
	fmt.Println("\n" + header)
	fmt.Println(strings.Repeat("-", len(header)))

	shown := 0
	for _, row := range resp.Rows {
		if shown >= max {
			fmt.Printf("... %d more rows\n", resp.RowCount-shown)
			break
		}
		values := make([]string, len(names))
		for i, name := range names {
			values[i] = fmt.Sprintf("%v", row[name])
		}
		fmt.Println(strings.Join(values, " | "))
		shown++
	}
}
