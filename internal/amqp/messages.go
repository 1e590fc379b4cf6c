package amqp

import (
	"encoding/json"
	"time"
)

// Event actions published on the transaction lifecycle.
const (
	ActionCreated  = "created"
	ActionImported = "imported"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionReset    = "reset"
)

// TransactionEvent is a compact notification about a store mutation.
// Consumers that need the full record fetch it from the API; the message
// carries only identifiers.
type TransactionEvent struct {
	Action    string    `json:"action"`
	ID        string    `json:"id,omitempty"`
	User      string    `json:"user,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action, id, user string) *TransactionEvent {
	return &TransactionEvent{
		Action:    action,
		ID:        id,
		User:      user,
		Timestamp: time.Now(),
	}
}

// NewImportEvent reports a batch import of count records for a user.
func NewImportEvent(user string, count int) *TransactionEvent {
	return &TransactionEvent{
		Action:    ActionImported,
		User:      user,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
