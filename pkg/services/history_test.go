package services

import "testing"

func TestQueryHistory_RecordAndRecent(t *testing.T) {
	h := NewQueryHistory(10)
	h.Record("show users", "SELECT * FROM users")
	h.Record("count orders", "SELECT COUNT(*) FROM orders")

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Question != "show users" || recent[1].Question != "count orders" {
		t.Errorf("entries out of order: %+v", recent)
	}

	// Mutating the returned slice must not affect the store.
	recent[0].Question = "tampered"
	if h.Recent()[0].Question != "show users" {
		t.Error("Recent should return a copy")
	}
}

func TestQueryHistory_DropsOldestBeyondCapacity(t *testing.T) {
	h := NewQueryHistory(3)
	h.Record("q1", "SELECT 1")
	h.Record("q2", "SELECT 2")
	h.Record("q3", "SELECT 3")
	h.Record("q4", "SELECT 4")
	h.Record("q5", "SELECT 5")

	recent := h.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected capacity of 3, got %d entries", len(recent))
	}
	for i, want := range []string{"q3", "q4", "q5"} {
		if recent[i].Question != want {
			t.Errorf("entry %d = %q, want %q", i, recent[i].Question, want)
		}
	}
}

func TestQueryHistory_IgnoresBlankPairs(t *testing.T) {
	h := NewQueryHistory(10)
	h.Record("", "SELECT 1")
	h.Record("question", "   ")

	if h.Len() != 0 {
		t.Errorf("blank pairs should be ignored, got %d entries", h.Len())
	}
}

func TestQueryHistory_Clear(t *testing.T) {
	h := NewQueryHistory(10)
	h.Record("q1", "SELECT 1")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("expected empty history after Clear, got %d entries", h.Len())
	}
}

func TestNewQueryHistory_DefaultCapacity(t *testing.T) {
	h := NewQueryHistory(0)
	for i := 0; i < DefaultHistoryCapacity+5; i++ {
		h.Record("question", "SELECT 1")
	}

	if h.Len() != DefaultHistoryCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultHistoryCapacity, h.Len())
	}
}
