package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/event"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

type mockOrderRepo struct {
	getByID         func(ctx context.Context, id string) (*entity.ServiceOrder, error)
	updateStatus    func(ctx context.Context, id string, expected, next domainwf.State) error
	setDeliveryDate func(ctx context.Context, id string, at time.Time) error
	setCancellation func(ctx context.Context, id string, reason string) error
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.ServiceOrder) error { return nil }
func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	return m.getByID(ctx, id)
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, expected, next domainwf.State) error {
	if m.updateStatus == nil {
		return nil
	}
	return m.updateStatus(ctx, id, expected, next)
}
func (m *mockOrderRepo) SetDeliveryDate(ctx context.Context, id string, at time.Time) error {
	if m.setDeliveryDate == nil {
		return nil
	}
	return m.setDeliveryDate(ctx, id, at)
}
func (m *mockOrderRepo) SetCancellation(ctx context.Context, id string, reason string) error {
	if m.setCancellation == nil {
		return nil
	}
	return m.setCancellation(ctx, id, reason)
}
func (m *mockOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error) {
	return nil, nil
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

func (m *mockBus) Subscribe(eventType event.Type, handler dispatcher.Handler)                  {}
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

func orderInState(status domainwf.State) *entity.ServiceOrder {
	return &entity.ServiceOrder{
		ID:       "so-1",
		ClientID: "c-1",
		Status:   status,
	}
}

func TestEngineTransitionNotFound(t *testing.T) {
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) { return nil, nil },
	}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, &mockBus{})

	_, err := e.Transition(context.Background(), "missing", domainwf.OrderReceived, port.System, "")
	if !errors.Is(err, domainerr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestEngineTransitionRejectsIllegalEdge(t *testing.T) {
	updateCalled := false
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderFinished), nil
		},
		updateStatus: func(ctx context.Context, id string, expected, next domainwf.State) error {
			updateCalled = true
			return nil
		},
	}
	bus := &mockBus{}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, bus)

	_, err := e.Transition(context.Background(), "so-1", domainwf.OrderInDiagnosis, port.System, "")
	if !errors.Is(err, domainerr.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
	if updateCalled {
		t.Error("rejected transition must not touch the repository")
	}
	if len(bus.sync)+len(bus.async) != 0 {
		t.Error("rejected transition must not publish events")
	}
}

func TestEngineTransitionRejectsUnauthorizedRole(t *testing.T) {
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderRequested), nil
		},
	}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, &mockBus{})

	client := port.Actor{UserID: "u-1", Role: domainwf.RoleClient}
	_, err := e.Transition(context.Background(), "so-1", domainwf.OrderInDiagnosis, client, "")
	if !errors.Is(err, domainerr.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestEngineTransitionPersistsAndPublishes(t *testing.T) {
	var gotExpected, gotNext domainwf.State
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderRequested), nil
		},
		updateStatus: func(ctx context.Context, id string, expected, next domainwf.State) error {
			gotExpected, gotNext = expected, next
			return nil
		},
	}
	history := &mockHistoryRepo{}
	bus := &mockBus{}
	e := NewOrderEngine(repo, history, passthroughTx{}, bus)

	employee := port.Actor{UserID: "u-2", Role: domainwf.RoleEmployee}
	order, err := e.Transition(context.Background(), "so-1", domainwf.OrderInDiagnosis, employee, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotExpected != domainwf.OrderRequested || gotNext != domainwf.OrderInDiagnosis {
		t.Errorf("compare-and-set got (%s, %s)", gotExpected, gotNext)
	}
	if order.Status != domainwf.OrderInDiagnosis {
		t.Errorf("order status = %s, want IN_DIAGNOSIS", order.Status)
	}
	if len(history.rows) != 1 || history.rows[0].NewStatus != "IN_DIAGNOSIS" {
		t.Errorf("history rows = %+v", history.rows)
	}
	if len(bus.async) != 1 || bus.async[0].Type != event.TypeOrderStatusChanged {
		t.Errorf("async events = %+v", bus.async)
	}
	if len(bus.sync) != 0 {
		t.Errorf("no sync event expected for this target, got %+v", bus.sync)
	}
}

func TestEngineReceivedDispatchesSynchronously(t *testing.T) {
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderRequested), nil
		},
	}
	bus := &mockBus{}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, bus)

	_, err := e.Transition(context.Background(), "so-1", domainwf.OrderReceived, port.System, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bus.sync) != 1 {
		t.Fatalf("sync events = %d, want 1", len(bus.sync))
	}
	evt := bus.sync[0]
	if evt.Type != event.TypeServiceOrderReceived {
		t.Errorf("event type = %s", evt.Type)
	}
	if evt.GetString("service_order_id") != "so-1" || evt.GetString("client_id") != "c-1" {
		t.Errorf("payload = %v", evt.Payload)
	}
}

func TestEngineHandlerFailureSurfacesAfterCommit(t *testing.T) {
	updateCalled := false
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderRequested), nil
		},
		updateStatus: func(ctx context.Context, id string, expected, next domainwf.State) error {
			updateCalled = true
			return nil
		},
	}
	bus := &mockBus{
		dispatch: func(ctx context.Context, evt *event.Event) error {
			return fmt.Errorf("handler auto-generate-budget failed: boom")
		},
	}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, bus)

	order, err := e.Transition(context.Background(), "so-1", domainwf.OrderReceived, port.System, "")
	if err == nil {
		t.Fatal("expected the reaction failure to surface")
	}
	if !errors.Is(err, domainerr.ErrUnknown) {
		t.Errorf("got %v, want shielded ErrUnknown", err)
	}
	if !updateCalled {
		t.Error("the order transition must commit before the reaction runs")
	}
	if order == nil || order.Status != domainwf.OrderReceived {
		t.Error("the committed order must still be returned")
	}
}

func TestEngineConflictFromCompareAndSet(t *testing.T) {
	repo := &mockOrderRepo{
		getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
			return orderInState(domainwf.OrderRequested), nil
		},
		updateStatus: func(ctx context.Context, id string, expected, next domainwf.State) error {
			return fmt.Errorf("%w: service order %s moved concurrently", domainerr.ErrConflict, id)
		},
	}
	e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, &mockBus{})

	_, err := e.Transition(context.Background(), "so-1", domainwf.OrderInDiagnosis, port.System, "")
	if !errors.Is(err, domainerr.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestEngineTerminalTransitionsStampFields(t *testing.T) {
	t.Run("delivered sets delivery date", func(t *testing.T) {
		repo := &mockOrderRepo{
			getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
				return orderInState(domainwf.OrderFinished), nil
			},
		}
		e := NewOrderEngine(repo, &mockHistoryRepo{}, passthroughTx{}, &mockBus{})

		order, err := e.Transition(context.Background(), "so-1", domainwf.OrderDelivered, port.System, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.DeliveryDate == nil {
			t.Error("expected delivery date to be set")
		}
	})

	t.Run("cancelled records the reason", func(t *testing.T) {
		repo := &mockOrderRepo{
			getByID: func(ctx context.Context, id string) (*entity.ServiceOrder, error) {
				return orderInState(domainwf.OrderInExecution), nil
			},
		}
		history := &mockHistoryRepo{}
		e := NewOrderEngine(repo, history, passthroughTx{}, &mockBus{})

		order, err := e.Transition(context.Background(), "so-1", domainwf.OrderCancelled, port.System, "client gave up")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.CancellationReason != "client gave up" {
			t.Errorf("reason = %q", order.CancellationReason)
		}
		if history.rows[0].Reason != "client gave up" {
			t.Errorf("history reason = %q", history.rows[0].Reason)
		}
	})
}
