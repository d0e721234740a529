package entity

import "time"

// Aggregate type labels for status history rows
const (
	AggregateServiceOrder = "service_order"
	AggregateBudget       = "budget"
)

// StatusHistory is an audit row appended for every committed transition
// of either aggregate.
type StatusHistory struct {
	ID             int64     `json:"id"`
	AggregateType  string    `json:"aggregate_type"`
	AggregateID    string    `json:"aggregate_id"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
