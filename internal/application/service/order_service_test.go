package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

type mockOrderRepo struct {
	created []*entity.ServiceOrder
	getByID func(ctx context.Context, id string) (*entity.ServiceOrder, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.ServiceOrder) error {
	m.created = append(m.created, order)
	return nil
}
func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, expected, next domainwf.State) error {
	return nil
}
func (m *mockOrderRepo) SetDeliveryDate(ctx context.Context, id string, at time.Time) error {
	return nil
}
func (m *mockOrderRepo) SetCancellation(ctx context.Context, id string, reason string) error {
	return nil
}
func (m *mockOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error) {
	return nil, nil
}

type mockEngine struct {
	transition func(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error)
}

func (m *mockEngine) Transition(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error) {
	return m.transition(ctx, orderID, target, actor, reason)
}
func (m *mockEngine) CurrentState(ctx context.Context, orderID string) (domainwf.State, error) {
	return "", nil
}

func TestIntakeCreatesRequestedOrder(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewOrderService(repo, &mockEngine{}, nopLogger{})

	order, err := svc.Intake(context.Background(), "c-1", "v-1", "strange noise at 80km/h")
	require.NoError(t, err)

	assert.Equal(t, domainwf.OrderRequested, order.Status)
	assert.Equal(t, "c-1", order.ClientID)
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.RequestDate.IsZero())
	require.Len(t, repo.created, 1)
}

func TestIntakeRequiresReferences(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{}, &mockEngine{}, nopLogger{})

	_, err := svc.Intake(context.Background(), "", "v-1", "")
	assert.ErrorIs(t, err, domainerr.ErrValidation)

	_, err = svc.Intake(context.Background(), "c-1", "", "")
	assert.ErrorIs(t, err, domainerr.ErrValidation)
}

func TestGetNotFoundOrder(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{}, &mockEngine{}, nopLogger{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestTransitionDelegatesToEngine(t *testing.T) {
	engine := &mockEngine{
		transition: func(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error) {
			assert.Equal(t, "so-1", orderID)
			assert.Equal(t, domainwf.OrderReceived, target)
			assert.Equal(t, employeeActor, actor)
			return &entity.ServiceOrder{ID: orderID, Status: target}, nil
		},
	}
	svc := NewOrderService(&mockOrderRepo{}, engine, nopLogger{})

	order, err := svc.Transition(context.Background(), "so-1", domainwf.OrderReceived, employeeActor, "")
	require.NoError(t, err)
	assert.Equal(t, domainwf.OrderReceived, order.Status)
}

func TestTransitionPropagatesEngineFailure(t *testing.T) {
	engine := &mockEngine{
		transition: func(ctx context.Context, orderID string, target domainwf.State, actor port.Actor, reason string) (*entity.ServiceOrder, error) {
			return nil, fmt.Errorf("%w: service_order %s cannot move REQUESTED -> FINISHED", domainerr.ErrInvalidTransition, orderID)
		},
	}
	svc := NewOrderService(&mockOrderRepo{}, engine, nopLogger{})

	_, err := svc.Transition(context.Background(), "so-1", domainwf.OrderFinished, clientActor, "")
	assert.ErrorIs(t, err, domainerr.ErrInvalidTransition)
}
