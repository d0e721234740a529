// Package handler holds the reactive use cases: procedures subscribed to
// one event type each, invoking a use case on a different aggregate. A
// reaction must not assume delivery is retried.
package handler

import (
	"context"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/domain/event"
)

// EventHandler is a reaction owning exactly one event type
type EventHandler interface {
	// EventType is the key the reaction expects to be registered under
	EventType() event.Type

	// Handle processes one delivery of the event
	Handle(ctx context.Context, evt *event.Event) error

	// Name identifies the reaction in logs and failure messages
	Name() string
}

// Register subscribes reactions on the bus in the given order; dispatch
// order follows registration order.
func Register(bus dispatcher.Dispatcher, reactions ...EventHandler) {
	for _, r := range reactions {
		bus.SubscribeNamed(r.EventType(), r.Name(), r.Handle)
	}
}
