package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/event"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// OrderEngine drives service-order transitions: load, validate against the
// role-gated graph, persist with an audit row in one transaction, then
// publish the matching domain event.
type OrderEngine interface {
	// Transition moves an order to the target state on behalf of an actor.
	// Reason is recorded in history and, for cancellations, on the order.
	Transition(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error)

	// CurrentState returns the persisted state of an order
	CurrentState(ctx context.Context, orderID string) (domainwf.State, error)
}

type orderEngine struct {
	orders  port.ServiceOrderRepository
	history port.HistoryRepository
	tx      port.TransactionManager
	bus     dispatcher.Dispatcher
	graph   *domainwf.Graph
}

// NewOrderEngine creates the service-order transition engine
func NewOrderEngine(
	orders port.ServiceOrderRepository,
	history port.HistoryRepository,
	tx port.TransactionManager,
	bus dispatcher.Dispatcher,
) OrderEngine {
	return &orderEngine{
		orders:  orders,
		history: history,
		tx:      tx,
		bus:     bus,
		graph:   BuildServiceOrderGraph(),
	}
}

func (e *orderEngine) Transition(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: load order %s: %v", domainerr.ErrPersistence, orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: service order %s", domainerr.ErrNotFound, orderID)
	}

	previous := order.Status
	if err := e.graph.AssertTransition(previous, target, actor.Role, orderID); err != nil {
		return nil, err
	}

	now := time.Now()
	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.orders.UpdateStatus(txCtx, orderID, previous, target); err != nil {
			return err
		}

		switch target {
		case domainwf.OrderDelivered:
			if err := e.orders.SetDeliveryDate(txCtx, orderID, now); err != nil {
				return err
			}
		case domainwf.OrderCancelled:
			if err := e.orders.SetCancellation(txCtx, orderID, reason); err != nil {
				return err
			}
		}

		return e.history.Create(txCtx, &entity.StatusHistory{
			AggregateType:  entity.AggregateServiceOrder,
			AggregateID:    orderID,
			ActorID:        actor.UserID,
			ActorRole:      actor.Role.String(),
			PreviousStatus: previous.String(),
			NewStatus:      target.String(),
			Reason:         reason,
			Timestamp:      now,
		})
	})
	if err != nil {
		return nil, domainerr.Shield(err)
	}

	order.Status = target
	order.UpdatedAt = now
	switch target {
	case domainwf.OrderDelivered:
		order.DeliveryDate = &now
	case domainwf.OrderCancelled:
		order.CancellationReason = reason
	}

	e.bus.DispatchAsync(ctx, event.New(event.TypeOrderStatusChanged, orderID, map[string]interface{}{
		"previous_status": previous.String(),
		"new_status":      target.String(),
		"actor_id":        actor.UserID,
		"actor_role":      actor.Role.String(),
	}))

	// Reception triggers budget auto-generation in the same call; a
	// reaction failure surfaces here even though the order transition
	// itself has already been committed.
	if target == domainwf.OrderReceived {
		received := event.New(event.TypeServiceOrderReceived, orderID, map[string]interface{}{
			"service_order_id": orderID,
			"client_id":        order.ClientID,
		})
		if err := e.bus.Dispatch(ctx, received); err != nil {
			return order, domainerr.Shield(err)
		}
	}

	return order, nil
}

func (e *orderEngine) CurrentState(ctx context.Context, orderID string) (domainwf.State, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("%w: load order %s: %v", domainerr.ErrPersistence, orderID, err)
	}
	if order == nil {
		return "", fmt.Errorf("%w: service order %s", domainerr.ErrNotFound, orderID)
	}
	return order.Status, nil
}
