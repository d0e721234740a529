package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/application/workflow"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/event"
	"github.com/garagehub/repair-workflow/internal/domain/result"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// ApprovalService is the budget-approval workflow. Approval is the one
// transition with side effects beyond the aggregate itself, so it
// reconciles the budget state with live stock availability before
// committing: load, expiry check, aggregate stock check, role-gated
// transition, persist, publish.
type ApprovalService interface {
	Approve(ctx context.Context, budgetID string, actor port.Actor) result.Result[*BudgetSnapshot]
}

type approvalServiceImpl struct {
	budgets port.BudgetRepository
	items   port.BudgetItemRepository
	clients port.ClientRepository
	history port.HistoryRepository
	tx      port.TransactionManager
	stock   port.StockAvailabilityChecker
	bus     dispatcher.Dispatcher
	graph   *domainwf.Graph
	logger  Logger
	now     func() time.Time
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	budgets port.BudgetRepository,
	items port.BudgetItemRepository,
	clients port.ClientRepository,
	history port.HistoryRepository,
	tx port.TransactionManager,
	stock port.StockAvailabilityChecker,
	bus dispatcher.Dispatcher,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		budgets: budgets,
		items:   items,
		clients: clients,
		history: history,
		tx:      tx,
		stock:   stock,
		bus:     bus,
		graph:   workflow.BuildBudgetGraph(),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *approvalServiceImpl) Approve(ctx context.Context, budgetID string, actor port.Actor) result.Result[*BudgetSnapshot] {
	fail := func(err error) result.Result[*BudgetSnapshot] {
		s.logger.Error("Budget approval failed", "budget_id", budgetID, "error", err)
		return result.Fail[*BudgetSnapshot](err)
	}

	budget, err := s.budgets.GetByID(ctx, budgetID)
	if err != nil {
		return fail(domainerr.Shield(err))
	}
	if budget == nil {
		return fail(fmt.Errorf("%w: budget %s", domainerr.ErrNotFound, budgetID))
	}

	now := s.now()
	if budget.IsExpired(now) {
		return fail(fmt.Errorf("%w: budget %s generated %s with %d days validity",
			domainerr.ErrBudgetExpired, budgetID, budget.GenerationDate.Format(time.DateOnly), budget.ValidityDays))
	}

	lines, err := s.stockLines(ctx, budgetID)
	if err != nil {
		return fail(err)
	}

	// One aggregate check for all stock-backed lines: either the whole
	// budget is fulfillable or the approval fails.
	if len(lines) > 0 {
		checked := s.stock.Check(ctx, budgetID, lines)
		if checked.IsFailure() {
			return fail(domainerr.Shield(checked.Err()))
		}
		if !checked.Value() {
			return fail(fmt.Errorf("%w: budget %s cannot be fulfilled", domainerr.ErrInsufficientStock, budgetID))
		}
	}

	previous := budget.Status
	if err := s.graph.AssertTransition(previous, domainwf.BudgetApproved, actor.Role, budgetID); err != nil {
		return fail(err)
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.budgets.UpdateStatus(txCtx, budgetID, previous, domainwf.BudgetApproved, now); err != nil {
			return err
		}
		return s.history.Create(txCtx, &entity.StatusHistory{
			AggregateType:  entity.AggregateBudget,
			AggregateID:    budgetID,
			ActorID:        actor.UserID,
			ActorRole:      actor.Role.String(),
			PreviousStatus: previous.String(),
			NewStatus:      domainwf.BudgetApproved.String(),
			Timestamp:      now,
		})
	})
	if err != nil {
		return fail(domainerr.Shield(err))
	}

	applyStatusDate(budget, domainwf.BudgetApproved, now)

	// Publication happens strictly after persistence. Reactions run
	// synchronously in-call; a reaction failure surfaces as a Failure
	// even though the approval itself is already committed.
	if err := s.bus.Dispatch(ctx, s.approvedEvent(ctx, budget, now)); err != nil {
		return fail(domainerr.Shield(err))
	}

	s.logger.Info("Budget approved",
		"budget_id", budgetID,
		"actor_id", actor.UserID,
		"total_cents", budget.TotalAmount.Cents(),
	)
	return result.Ok(SnapshotBudget(budget))
}

// stockLines loads the budget lines and keeps the stock-backed ones
func (s *approvalServiceImpl) stockLines(ctx context.Context, budgetID string) ([]port.StockLine, error) {
	items, err := s.items.GetByBudgetID(ctx, budgetID)
	if err != nil {
		return nil, domainerr.Shield(err)
	}

	lines := make([]port.StockLine, 0, len(items))
	for _, it := range items {
		if it.Type != entity.ItemStockItem {
			continue
		}
		lines = append(lines, port.StockLine{
			StockItemID: it.StockItemID,
			Quantity:    it.Quantity,
		})
	}
	return lines, nil
}

func (s *approvalServiceImpl) approvedEvent(ctx context.Context, budget *entity.Budget, approvedAt time.Time) *event.Event {
	payload := map[string]interface{}{
		"service_order_id":   budget.ServiceOrderID,
		"client_id":          budget.ClientID,
		"budget_total":       budget.TotalAmount.String(),
		"budget_total_cents": budget.TotalAmount.Cents(),
		"approved_at":        approvedAt,
	}

	// Client name and email ride on the event so reactions need no extra
	// lookup; a missing client record degrades to an anonymous payload.
	if client, err := s.clients.GetByID(ctx, budget.ClientID); err == nil && client != nil {
		payload["client_name"] = client.Name
		payload["client_email"] = client.Email
	}

	return event.New(event.TypeBudgetApproved, budget.ID, payload)
}
