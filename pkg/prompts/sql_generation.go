package prompts

import (
	"fmt"
	"strings"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// MaxHistoryEntries bounds how many prior (question, SQL) pairs appear in a
// prompt. Older context is intentionally discarded to keep prompt size and
// cost predictable.
const MaxHistoryEntries = 3

// SystemPrompt is sent verbatim to every provider on every generation call.
const SystemPrompt = `You are an expert SQL analyst. You translate natural language questions into SQL queries for the database described in the user message.

Rules:
- Generate only SELECT statements or WITH (common table expression) queries. Never generate INSERT, UPDATE, DELETE, DROP, or any other statement that modifies data or schema.
- Use only table and column names that appear in the provided schema. Never invent names.
- Join tables by following the listed foreign keys.
- Add a LIMIT clause when a query could return a large number of rows.
- Use table aliases to keep queries readable.
- Handle NULL values appropriately in filters and aggregations.

Respond with a single JSON object and no surrounding text:
{"sql": "<the SQL query>", "explanation": "<one or two sentences describing what the query does>", "confidence": "high" | "medium" | "low"}`

// generationInstruction closes every prompt with the JSON output contract.
const generationInstruction = `Generate a SQL query that answers this question. Respond only with the JSON object {"sql": ..., "explanation": ..., "confidence": ...}.`

// BuildSQLGenerationPrompt assembles the user-message prompt: schema
// context first, then the most recent history pairs (at most
// MaxHistoryEntries, oldest of the retained window first), then the
// question and the fixed output instruction. Pure function of its inputs.
func BuildSQLGenerationPrompt(question, schemaText string, history []models.QueryExample) string {
	var b strings.Builder

	b.WriteString(schemaText)
	b.WriteString("\n")

	if len(history) > 0 {
		recent := history
		if len(recent) > MaxHistoryEntries {
			recent = recent[len(recent)-MaxHistoryEntries:]
		}
		b.WriteString("\nPrevious queries:\n")
		for _, pair := range recent {
			fmt.Fprintf(&b, "User: %s\nSQL: %s\n", pair.Question, pair.SQL)
		}
	}

	fmt.Fprintf(&b, "\n%s\n\n%s", question, generationInstruction)
	return b.String()
}
