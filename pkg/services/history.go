package services

import (
	"strings"
	"sync"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// DefaultHistoryCapacity bounds the in-memory query history. The prompt
// builder only reads the most recent entries, so a small window is plenty.
const DefaultHistoryCapacity = 50

// QueryHistory records (question, SQL) pairs from successfully executed
// queries so later prompts can carry recent conversational context.
type QueryHistory struct {
	mu      sync.Mutex
	entries []models.QueryExample
	cap     int
}

// NewQueryHistory creates an empty history bounded to capacity entries.
// Non-positive capacities fall back to DefaultHistoryCapacity.
func NewQueryHistory(capacity int) *QueryHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &QueryHistory{cap: capacity}
}

// Record appends a pair, dropping the oldest entry once the capacity is
// reached. Blank questions or SQL are ignored.
func (h *QueryHistory) Record(question, sql string) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(sql) == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, models.QueryExample{Question: question, SQL: sql})
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Recent returns a copy of the recorded pairs, oldest first.
func (h *QueryHistory) Recent() []models.QueryExample {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.QueryExample, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of recorded pairs.
func (h *QueryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear drops all recorded pairs.
func (h *QueryHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
