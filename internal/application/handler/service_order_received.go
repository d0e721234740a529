package handler

import (
	"context"
	"fmt"

	"github.com/garagehub/repair-workflow/internal/application/service"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/event"
)

// ServiceOrderReceivedReaction auto-generates a budget when a service
// order reaches RECEIVED. The budget is created with the configured
// defaults (7-day validity and EMAIL delivery unless overridden); line
// items are added later during diagnosis. Creation is idempotent on the
// service order id, so a duplicate delivery does not produce a second
// budget.
type ServiceOrderReceivedReaction struct {
	budgets      service.BudgetService
	validityDays int
	delivery     entity.DeliveryMethod
	logger       service.Logger
}

// NewServiceOrderReceivedReaction creates the reaction. Zero values for
// validityDays and delivery fall back to the service defaults.
func NewServiceOrderReceivedReaction(budgets service.BudgetService, validityDays int, delivery entity.DeliveryMethod, logger service.Logger) *ServiceOrderReceivedReaction {
	return &ServiceOrderReceivedReaction{
		budgets:      budgets,
		validityDays: validityDays,
		delivery:     delivery,
		logger:       logger,
	}
}

func (r *ServiceOrderReceivedReaction) Name() string {
	return "auto-generate-budget"
}

func (r *ServiceOrderReceivedReaction) EventType() event.Type {
	return event.TypeServiceOrderReceived
}

// Handle creates the budget; on failure it logs and re-raises so the
// error propagates to the publisher of the event.
func (r *ServiceOrderReceivedReaction) Handle(ctx context.Context, evt *event.Event) error {
	serviceOrderID := evt.GetString("service_order_id")
	clientID := evt.GetString("client_id")
	if serviceOrderID == "" || clientID == "" {
		return fmt.Errorf("event %s missing service_order_id or client_id", evt.ID)
	}

	budget, err := r.budgets.CreateForServiceOrder(ctx, service.CreateBudgetInput{
		ServiceOrderID: serviceOrderID,
		ClientID:       clientID,
		ValidityDays:   r.validityDays,
		DeliveryMethod: r.delivery,
		Notes:          fmt.Sprintf("Auto-generated on reception of service order %s", serviceOrderID),
	})
	if err != nil {
		r.logger.Error("Budget auto-generation failed",
			"service_order_id", serviceOrderID,
			"event_id", evt.ID,
			"error", err,
		)
		return err
	}

	r.logger.Info("Budget auto-generated",
		"budget_id", budget.ID,
		"service_order_id", serviceOrderID,
	)
	return nil
}
