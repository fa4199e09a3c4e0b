package kafka

import "time"

// MovementRecordedEvent is emitted after stock ledger movements are
// appended, one event per write batch.
type MovementRecordedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	OutletID     string    `json:"outlet_id"`
	MovementType string    `json:"movement_type"`
	Reference    string    `json:"reference"`
	ReferenceID  string    `json:"reference_id"`
	MovementIDs  []string  `json:"movement_ids"`
	Timestamp    time.Time `json:"timestamp"`
}

// TransactionSettledEvent is emitted after a sale transaction settles.
type TransactionSettledEvent struct {
	EventID       string             `json:"event_id"`
	EventType     string             `json:"event_type"`
	OutletID      string             `json:"outlet_id"`
	TransactionID string             `json:"transaction_id"`
	Total         string             `json:"total"`
	Reconciled    bool               `json:"reconciled"`
	Amounts       map[string]string  `json:"amounts"`
	Timestamp     time.Time          `json:"timestamp"`
}

// Event types
const (
	EventTypeMovementRecorded   = "inventory.movement.recorded"
	EventTypeTransactionSettled = "payment.transaction.settled"
)

// Kafka topics
const (
	TopicMovementRecorded   = "inventory-movements"
	TopicTransactionSettled = "transaction-settled"
)
