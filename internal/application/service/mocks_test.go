package service

import (
	"context"
	"time"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/event"
	"github.com/garagehub/repair-workflow/internal/domain/result"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockBudgetRepo struct {
	created             []*entity.Budget
	getByID             func(ctx context.Context, id string) (*entity.Budget, error)
	getByServiceOrderID func(ctx context.Context, serviceOrderID string) (*entity.Budget, error)
	updateStatus        func(ctx context.Context, id string, expected, next domainwf.State, at time.Time) error
}

func (m *mockBudgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	m.created = append(m.created, budget)
	return nil
}
func (m *mockBudgetRepo) GetByID(ctx context.Context, id string) (*entity.Budget, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockBudgetRepo) GetByServiceOrderID(ctx context.Context, serviceOrderID string) (*entity.Budget, error) {
	if m.getByServiceOrderID == nil {
		return nil, nil
	}
	return m.getByServiceOrderID(ctx, serviceOrderID)
}
func (m *mockBudgetRepo) UpdateStatus(ctx context.Context, id string, expected, next domainwf.State, at time.Time) error {
	if m.updateStatus == nil {
		return nil
	}
	return m.updateStatus(ctx, id, expected, next, at)
}

type mockItemRepo struct {
	created       []*entity.BudgetItem
	getByBudgetID func(ctx context.Context, budgetID string) ([]*entity.BudgetItem, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item *entity.BudgetItem) error {
	m.created = append(m.created, item)
	return nil
}
func (m *mockItemRepo) GetByBudgetID(ctx context.Context, budgetID string) ([]*entity.BudgetItem, error) {
	if m.getByBudgetID == nil {
		return nil, nil
	}
	return m.getByBudgetID(ctx, budgetID)
}

type mockClientRepo struct {
	getByID func(ctx context.Context, id string) (*entity.Client, error)
}

func (m *mockClientRepo) Create(ctx context.Context, client *entity.Client) error { return nil }
func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}

type mockHistoryRepo struct {
	rows []*entity.StatusHistory
}

func (m *mockHistoryRepo) Create(ctx context.Context, row *entity.StatusHistory) error {
	m.rows = append(m.rows, row)
	return nil
}
func (m *mockHistoryRepo) GetByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]*entity.StatusHistory, error) {
	return m.rows, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockBus struct {
	sync     []*event.Event
	async    []*event.Event
	dispatch func(ctx context.Context, evt *event.Event) error
}

func (m *mockBus) Subscribe(eventType event.Type, handler dispatcher.Handler)                   {}
func (m *mockBus) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {}
func (m *mockBus) Dispatch(ctx context.Context, evt *event.Event) error {
	m.sync = append(m.sync, evt)
	if m.dispatch != nil {
		return m.dispatch(ctx, evt)
	}
	return nil
}
func (m *mockBus) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.async = append(m.async, evt)
}
func (m *mockBus) Close() error { return nil }

type mockStockChecker struct {
	calls int
	check func(ctx context.Context, budgetID string, lines []port.StockLine) result.Result[bool]
}

func (m *mockStockChecker) Check(ctx context.Context, budgetID string, lines []port.StockLine) result.Result[bool] {
	m.calls++
	if m.check == nil {
		return result.Ok(true)
	}
	return m.check(ctx, budgetID, lines)
}

// sentBudget returns a budget in SENT, freshly generated and unexpired
func sentBudget() *entity.Budget {
	now := time.Now()
	return &entity.Budget{
		ID:             "b-1",
		ServiceOrderID: "so-1",
		ClientID:       "c-1",
		Status:         domainwf.BudgetSent,
		TotalAmount:    entity.MustMoney(14990),
		ValidityDays:   7,
		DeliveryMethod: entity.DeliveryEmail,
		GenerationDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
