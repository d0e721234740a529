package service

import (
	"context"
	"fmt"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/application/workflow"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// Logger is the minimal logging dependency of the service layer
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// OrderService exposes service-order use cases: client-facing intake plus
// graph-validated transitions.
type OrderService interface {
	Intake(ctx context.Context, clientID, vehicleID, notes string) (*entity.ServiceOrder, error)
	Get(ctx context.Context, id string) (*entity.ServiceOrder, error)
	Transition(ctx context.Context, id string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error)
}

type orderServiceImpl struct {
	orders port.ServiceOrderRepository
	engine workflow.OrderEngine
	logger Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders port.ServiceOrderRepository, engine workflow.OrderEngine, logger Logger) OrderService {
	return &orderServiceImpl{
		orders: orders,
		engine: engine,
		logger: logger,
	}
}

// Intake registers a repair request; the order starts in REQUESTED
func (s *orderServiceImpl) Intake(ctx context.Context, clientID, vehicleID, notes string) (*entity.ServiceOrder, error) {
	if clientID == "" || vehicleID == "" {
		return nil, fmt.Errorf("%w: client and vehicle references are required", domainerr.ErrValidation)
	}

	order := entity.NewServiceOrder(clientID, vehicleID, notes)
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create service order", "error", err, "client_id", clientID)
		return nil, domainerr.Shield(err)
	}

	s.logger.Info("Service order created", "id", order.ID, "client_id", clientID)
	return order, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, domainerr.Shield(err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: service order %s", domainerr.ErrNotFound, id)
	}
	return order, nil
}

func (s *orderServiceImpl) Transition(ctx context.Context, id string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error) {
	order, err := s.engine.Transition(ctx, id, target, actor, reason)
	if err != nil {
		s.logger.Error("Order transition failed",
			"id", id,
			"target", target.String(),
			"actor_role", actor.Role.String(),
			"error", err,
		)
		return order, err
	}

	s.logger.Info("Order transitioned", "id", id, "status", target.String(), "actor_id", actor.UserID)
	return order, nil
}

func (s *orderServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error) {
	orders, err := s.orders.List(ctx, limit, offset)
	if err != nil {
		return nil, domainerr.Shield(err)
	}
	return orders, nil
}
