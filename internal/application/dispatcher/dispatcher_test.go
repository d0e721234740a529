package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehub/repair-workflow/internal/domain/event"
)

func TestDispatchRunsHandlersInRegistrationOrder(t *testing.T) {
	d := New()
	var calls []string

	d.SubscribeNamed(event.TypeBudgetApproved, "first", func(ctx context.Context, evt *event.Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.SubscribeNamed(event.TypeBudgetApproved, "second", func(ctx context.Context, evt *event.Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.SubscribeNamed(event.TypeBudgetApproved, "third", func(ctx context.Context, evt *event.Event) error {
		calls = append(calls, "third")
		return nil
	})

	err := d.Dispatch(context.Background(), event.New(event.TypeBudgetApproved, "b-1", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestDispatchStopsOnFirstHandlerError(t *testing.T) {
	d := New()
	boom := errors.New("handler exploded")
	secondCalled := false

	d.SubscribeNamed(event.TypeBudgetApproved, "failing", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.SubscribeNamed(event.TypeBudgetApproved, "never-reached", func(ctx context.Context, evt *event.Event) error {
		secondCalled = true
		return nil
	})

	err := d.Dispatch(context.Background(), event.New(event.TypeBudgetApproved, "b-1", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.False(t, secondCalled, "handlers after the failing one must not run")
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	d := New()
	d.SubscribeNamed(event.TypeBudgetSent, "panicking", func(ctx context.Context, evt *event.Event) error {
		panic("kaboom")
	})

	err := d.Dispatch(context.Background(), event.New(event.TypeBudgetSent, "b-1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestDispatchWithoutHandlersIsNoop(t *testing.T) {
	d := New()
	err := d.Dispatch(context.Background(), event.New(event.TypeBudgetRejected, "b-1", nil))
	assert.NoError(t, err)
}

func TestDispatchRejectsUnknownEventType(t *testing.T) {
	d := New()
	err := d.Dispatch(context.Background(), &event.Event{Type: "budget.bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestSubscribePanicsOnUnknownEventType(t *testing.T) {
	d := New()
	assert.Panics(t, func() {
		d.Subscribe("budget.bogus", func(ctx context.Context, evt *event.Event) error { return nil })
	})
}

func TestDispatchAsyncAwaitedByClose(t *testing.T) {
	d := New()

	var mu sync.Mutex
	handled := 0
	d.SubscribeNamed(event.TypeBudgetGenerated, "counter", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})

	for i := 0; i < 5; i++ {
		d.DispatchAsync(context.Background(), event.New(event.TypeBudgetGenerated, "b-1", nil))
	}

	require.NoError(t, d.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, handled)
}

func TestClosedDispatcherRejectsDispatch(t *testing.T) {
	d := New()
	require.NoError(t, d.Close())

	err := d.Dispatch(context.Background(), event.New(event.TypeBudgetApproved, "b-1", nil))
	assert.Error(t, err)
	assert.Error(t, d.Close(), "second close must fail")
}
