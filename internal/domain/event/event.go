package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable fact describing a committed state change of an
// aggregate. Events are constructed at the moment a transition is
// committed and never mutated or replayed afterwards.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	AggregateID   string                 `json:"aggregate_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a domain event with auto-generated ID and timestamp
func New(eventType Type, aggregateID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateID:   aggregateID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewCorrelated creates an event linked to an existing correlation chain
func NewCorrelated(eventType Type, aggregateID string, payload map[string]interface{}, correlationID string) *Event {
	e := New(eventType, aggregateID, payload)
	e.CorrelationID = correlationID
	return e
}

// WithPayload returns a copy of the event with one added payload entry
func (e *Event) WithPayload(key string, value interface{}) *Event {
	next := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		next[k] = v
	}
	next[key] = value

	clone := *e
	clone.Payload = next
	return &clone
}

// GetString retrieves a string value from the payload
func (e *Event) GetString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int64 value from the payload
func (e *Event) GetInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// GetTime retrieves a time value from the payload
func (e *Event) GetTime(key string) time.Time {
	if val, ok := e.Payload[key]; ok {
		if t, ok := val.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
