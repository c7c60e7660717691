package domain

import "time"

// Customer is the remote store's customer record. Tags is the comma-delimited
// tag string; Record is the raw customer object passed through untouched.
type Customer struct {
	ID     string
	Tags   string
	Record map[string]any
}

// ReconciliationResult captures the before/after state of one tag-set
// reconciliation together with the record returned by the write-back.
type ReconciliationResult struct {
	PreviousTags string
	NewTags      string
	// Changed reports that the reconciliation path executed, not that the
	// serialized tag string differs from before.
	Changed  bool
	Customer *Customer
}

// ReconciliationEvent is the observational event emitted after a successful
// reconciliation, fanned out to Kafka and the activity stream.
type ReconciliationEvent struct {
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	EventType     string    `json:"event_type,omitempty"`
	PreviousTags  string    `json:"previous_tags"`
	NewTags       string    `json:"new_tags"`
	ProcessedAt   time.Time `json:"processed_at"`
}
