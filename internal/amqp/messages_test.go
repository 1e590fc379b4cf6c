package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionEvent(t *testing.T) {
	e := NewTransactionEvent(ActionCreated, "matt-1-1", "Matt")

	if e.Action != ActionCreated || e.ID != "matt-1-1" || e.User != "Matt" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second {
		t.Fatalf("timestamp should be recent, got %v", e.Timestamp)
	}
}

func TestTransactionEventJSON(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := &TransactionEvent{
		Action:    ActionImported,
		User:      "Eileen",
		Count:     7,
		Timestamp: ts,
	}

	b, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := TransactionEventFromJSON(b)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.Action != e.Action || parsed.User != e.User || parsed.Count != e.Count {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(ts) {
		t.Fatalf("timestamp mismatch: %v", parsed.Timestamp)
	}
}

func TestTransactionEventInvalidJSON(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte(`{"count": "seven"}`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
