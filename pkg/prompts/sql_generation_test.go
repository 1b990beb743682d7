package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

func TestBuildSQLGenerationPrompt_Layout(t *testing.T) {
	out := BuildSQLGenerationPrompt("how many users signed up today?", "Table: users\nColumns:\n  id: integer\n", nil)

	// Schema first, question later, instruction last
	schemaIdx := strings.Index(out, "Table: users")
	questionIdx := strings.Index(out, "how many users signed up today?")
	instructionIdx := strings.Index(out, "Respond only with the JSON object")

	assert.GreaterOrEqual(t, schemaIdx, 0)
	assert.Greater(t, questionIdx, schemaIdx)
	assert.Greater(t, instructionIdx, questionIdx)

	// No history block without history
	assert.NotContains(t, out, "Previous queries:")
}

func TestBuildSQLGenerationPrompt_HistoryTruncatedToLastThree(t *testing.T) {
	history := []models.QueryExample{
		{Question: "q1", SQL: "SELECT 1"},
		{Question: "q2", SQL: "SELECT 2"},
		{Question: "q3", SQL: "SELECT 3"},
		{Question: "q4", SQL: "SELECT 4"},
		{Question: "q5", SQL: "SELECT 5"},
	}

	out := BuildSQLGenerationPrompt("question", "schema", history)

	assert.NotContains(t, out, "User: q1")
	assert.NotContains(t, out, "User: q2")
	assert.Contains(t, out, "User: q3")
	assert.Contains(t, out, "User: q4")
	assert.Contains(t, out, "User: q5")

	// Retained pairs keep their original chronological order
	assert.Less(t, strings.Index(out, "User: q3"), strings.Index(out, "User: q4"))
	assert.Less(t, strings.Index(out, "User: q4"), strings.Index(out, "User: q5"))
}

func TestBuildSQLGenerationPrompt_HistoryPairFormat(t *testing.T) {
	history := []models.QueryExample{
		{Question: "count users", SQL: "SELECT COUNT(*) FROM users"},
	}

	out := BuildSQLGenerationPrompt("question", "schema", history)

	assert.Contains(t, out, "Previous queries:\nUser: count users\nSQL: SELECT COUNT(*) FROM users\n")
}

func TestBuildSQLGenerationPrompt_ShortHistoryKeptWhole(t *testing.T) {
	history := []models.QueryExample{
		{Question: "q1", SQL: "SELECT 1"},
		{Question: "q2", SQL: "SELECT 2"},
	}

	out := BuildSQLGenerationPrompt("question", "schema", history)

	assert.Contains(t, out, "User: q1")
	assert.Contains(t, out, "User: q2")
}

func TestSystemPrompt_StatesContract(t *testing.T) {
	assert.Contains(t, SystemPrompt, "SELECT")
	assert.Contains(t, SystemPrompt, `"confidence"`)
	assert.Contains(t, SystemPrompt, "JSON")
}
