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

// Defaults applied to budgets auto-generated on service-order reception
const (
	DefaultValidityDays   = 7
	DefaultDeliveryMethod = entity.DeliveryEmail
)

// BudgetItemInput is one requested budget line before validation
type BudgetItemInput struct {
	Type        entity.BudgetItemType
	Description string
	Quantity    int
	UnitCents   int64
	ServiceID   string
	StockItemID string
}

// CreateBudgetInput is the budget-creation request
type CreateBudgetInput struct {
	ServiceOrderID string
	ClientID       string
	ValidityDays   int
	DeliveryMethod entity.DeliveryMethod
	Notes          string
	Items          []BudgetItemInput
}

// BudgetService exposes the budget lifecycle short of approval: creation,
// sending, client acknowledgement and rejection.
type BudgetService interface {
	// CreateForServiceOrder creates a budget in GENERATED. The service
	// order id doubles as idempotency key: a second call for the same
	// order returns the existing budget instead of creating another.
	CreateForServiceOrder(ctx context.Context, in CreateBudgetInput) (*entity.Budget, error)

	Get(ctx context.Context, id string) result.Result[*BudgetSnapshot]
	Send(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot]
	MarkReceived(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot]
	Reject(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot]
}

type budgetServiceImpl struct {
	budgets port.BudgetRepository
	items   port.BudgetItemRepository
	history port.HistoryRepository
	tx      port.TransactionManager
	bus     dispatcher.Dispatcher
	graph   *domainwf.Graph
	logger  Logger
	now     func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgets port.BudgetRepository,
	items port.BudgetItemRepository,
	history port.HistoryRepository,
	tx port.TransactionManager,
	bus dispatcher.Dispatcher,
	logger Logger,
) BudgetService {
	return &budgetServiceImpl{
		budgets: budgets,
		items:   items,
		history: history,
		tx:      tx,
		bus:     bus,
		graph:   workflow.BuildBudgetGraph(),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *budgetServiceImpl) CreateForServiceOrder(ctx context.Context, in CreateBudgetInput) (*entity.Budget, error) {
	if in.ServiceOrderID == "" || in.ClientID == "" {
		return nil, fmt.Errorf("%w: service order and client references are required", domainerr.ErrValidation)
	}

	existing, err := s.budgets.GetByServiceOrderID(ctx, in.ServiceOrderID)
	if err != nil {
		return nil, domainerr.Shield(err)
	}
	if existing != nil {
		s.logger.Info("Budget already exists for service order",
			"service_order_id", in.ServiceOrderID, "budget_id", existing.ID)
		return existing, nil
	}

	validity := in.ValidityDays
	if validity <= 0 {
		validity = DefaultValidityDays
	}
	method := in.DeliveryMethod
	if method == "" {
		method = DefaultDeliveryMethod
	}

	budget := entity.NewBudget(in.ServiceOrderID, in.ClientID, validity, method, in.Notes)

	lines := make([]*entity.BudgetItem, 0, len(in.Items))
	total := entity.Money{}
	for _, it := range in.Items {
		unit, err := entity.NewMoney(it.UnitCents)
		if err != nil {
			return nil, err
		}
		line, err := entity.NewBudgetItem(budget.ID, it.Type, it.Description, it.Quantity, unit, it.ServiceID, it.StockItemID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		total = total.Add(line.TotalPrice)
	}
	budget.TotalAmount = total

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.budgets.Create(txCtx, budget); err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.items.Create(txCtx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create budget", "error", err, "service_order_id", in.ServiceOrderID)
		return nil, domainerr.Shield(err)
	}

	s.bus.DispatchAsync(ctx, event.New(event.TypeBudgetGenerated, budget.ID, map[string]interface{}{
		"service_order_id": budget.ServiceOrderID,
		"client_id":        budget.ClientID,
		"total_cents":      budget.TotalAmount.Cents(),
	}))

	s.logger.Info("Budget created",
		"id", budget.ID,
		"service_order_id", budget.ServiceOrderID,
		"total_cents", budget.TotalAmount.Cents(),
	)
	return budget, nil
}

func (s *budgetServiceImpl) Get(ctx context.Context, id string) result.Result[*BudgetSnapshot] {
	budget, err := s.load(ctx, id)
	if err != nil {
		return result.Fail[*BudgetSnapshot](err)
	}
	return result.Ok(SnapshotBudget(budget))
}

func (s *budgetServiceImpl) Send(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot] {
	return s.transition(ctx, id, actor, domainwf.BudgetSent, event.TypeBudgetSent, false)
}

// MarkReceived records the client acknowledgement; no stock or expiry
// check is involved.
func (s *budgetServiceImpl) MarkReceived(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot] {
	return s.transition(ctx, id, actor, domainwf.BudgetReceived, event.TypeBudgetReceived, false)
}

func (s *budgetServiceImpl) Reject(ctx context.Context, id string, actor port.Actor) result.Result[*BudgetSnapshot] {
	return s.transition(ctx, id, actor, domainwf.BudgetRejected, event.TypeBudgetRejected, true)
}

func (s *budgetServiceImpl) load(ctx context.Context, id string) (*entity.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, domainerr.Shield(err)
	}
	if budget == nil {
		return nil, fmt.Errorf("%w: budget %s", domainerr.ErrNotFound, id)
	}
	return budget, nil
}

func (s *budgetServiceImpl) transition(ctx context.Context, id string, actor port.Actor, target domainwf.State, evtType event.Type, checkExpiry bool) result.Result[*BudgetSnapshot] {
	budget, err := s.load(ctx, id)
	if err != nil {
		return result.Fail[*BudgetSnapshot](err)
	}

	now := s.now()
	if checkExpiry && budget.IsExpired(now) {
		return result.Fail[*BudgetSnapshot](fmt.Errorf("%w: budget %s generated %s with %d days validity",
			domainerr.ErrBudgetExpired, id, budget.GenerationDate.Format(time.DateOnly), budget.ValidityDays))
	}

	previous := budget.Status
	if err := s.graph.AssertTransition(previous, target, actor.Role, id); err != nil {
		return result.Fail[*BudgetSnapshot](err)
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.budgets.UpdateStatus(txCtx, id, previous, target, now); err != nil {
			return err
		}
		return s.history.Create(txCtx, &entity.StatusHistory{
			AggregateType:  entity.AggregateBudget,
			AggregateID:    id,
			ActorID:        actor.UserID,
			ActorRole:      actor.Role.String(),
			PreviousStatus: previous.String(),
			NewStatus:      target.String(),
			Timestamp:      now,
		})
	})
	if err != nil {
		s.logger.Error("Budget transition failed", "id", id, "target", target.String(), "error", err)
		return result.Fail[*BudgetSnapshot](domainerr.Shield(err))
	}

	applyStatusDate(budget, target, now)

	s.bus.DispatchAsync(ctx, event.New(evtType, id, map[string]interface{}{
		"service_order_id": budget.ServiceOrderID,
		"client_id":        budget.ClientID,
		"previous_status":  previous.String(),
		"new_status":       target.String(),
	}))

	s.logger.Info("Budget transitioned", "id", id, "status", target.String(), "actor_id", actor.UserID)
	return result.Ok(SnapshotBudget(budget))
}

// applyStatusDate mirrors on the in-memory entity the date column the
// repository stamped for the target state.
func applyStatusDate(b *entity.Budget, target domainwf.State, at time.Time) {
	b.Status = target
	b.UpdatedAt = at
	switch target {
	case domainwf.BudgetSent:
		b.SentDate = &at
	case domainwf.BudgetApproved:
		b.ApprovalDate = &at
	case domainwf.BudgetRejected:
		b.RejectionDate = &at
	}
}
