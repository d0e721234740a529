package port

import (
	"context"
	"time"

	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// ServiceOrderRepository defines persistence operations for ServiceOrder
type ServiceOrderRepository interface {
	Create(ctx context.Context, order *entity.ServiceOrder) error
	GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error)

	// UpdateStatus is a compare-and-set on the expected prior status.
	// It returns domainerr.ErrConflict when zero rows matched.
	UpdateStatus(ctx context.Context, id string, expected, next workflow.State) error

	SetDeliveryDate(ctx context.Context, id string, at time.Time) error
	SetCancellation(ctx context.Context, id string, reason string) error
	List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error)
}

// BudgetRepository defines persistence operations for Budget
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	GetByID(ctx context.Context, id string) (*entity.Budget, error)
	GetByServiceOrderID(ctx context.Context, serviceOrderID string) (*entity.Budget, error)

	// UpdateStatus is a compare-and-set on the expected prior status and
	// stamps the status date column matching the target state (sent_date,
	// approval_date or rejection_date). It returns domainerr.ErrConflict
	// when zero rows matched.
	UpdateStatus(ctx context.Context, id string, expected, next workflow.State, at time.Time) error
}

// BudgetItemRepository defines persistence operations for BudgetItem
type BudgetItemRepository interface {
	Create(ctx context.Context, item *entity.BudgetItem) error
	GetByBudgetID(ctx context.Context, budgetID string) ([]*entity.BudgetItem, error)
}

// ClientRepository resolves client references for notifications
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}

// StockItemRepository reads parts inventory levels
type StockItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.StockItem, error)
}

// HistoryRepository appends audit rows for committed transitions
type HistoryRepository interface {
	Create(ctx context.Context, row *entity.StatusHistory) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]*entity.StatusHistory, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
