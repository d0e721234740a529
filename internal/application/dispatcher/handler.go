package dispatcher

import (
	"context"

	"github.com/garagehub/repair-workflow/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo pairs a handler with its registration name for logs and
// failure messages.
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
