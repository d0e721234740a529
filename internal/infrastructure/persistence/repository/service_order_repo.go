package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/workflow"
	"github.com/garagehub/repair-workflow/internal/infrastructure/persistence/sqlite"
)

// ServiceOrderRepository implements port.ServiceOrderRepository on sqlite
type ServiceOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewServiceOrderRepository creates a new service order repository
func NewServiceOrderRepository(db *sql.DB, logger *zap.Logger) port.ServiceOrderRepository {
	return &ServiceOrderRepository{db: db, logger: logger}
}

func (r *ServiceOrderRepository) Create(ctx context.Context, order *entity.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (
			id, client_id, vehicle_id, status, request_date, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		order.ID,
		order.ClientID,
		order.VehicleID,
		order.Status.String(),
		order.RequestDate,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create service order", zap.Error(err))
		return fmt.Errorf("failed to create service order: %w", err)
	}
	return nil
}

func (r *ServiceOrderRepository) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	query := `
		SELECT id, client_id, vehicle_id, status, request_date, delivery_date,
			cancellation_reason, notes, created_at, updated_at
		FROM service_orders
		WHERE id = ?
	`

	var order entity.ServiceOrder
	var status string
	var deliveryDate sql.NullTime
	var cancellationReason, notes sql.NullString

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.ClientID,
		&order.VehicleID,
		&status,
		&order.RequestDate,
		&deliveryDate,
		&cancellationReason,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get service order", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	order.Status = workflow.State(status)
	if deliveryDate.Valid {
		order.DeliveryDate = &deliveryDate.Time
	}
	order.CancellationReason = cancellationReason.String
	order.Notes = notes.String

	return &order, nil
}

// UpdateStatus is a compare-and-set keyed by the expected prior status;
// zero matched rows means a concurrent writer got there first.
func (r *ServiceOrderRepository) UpdateStatus(ctx context.Context, id string, expected, next workflow.State) error {
	query := `
		UPDATE service_orders
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	res, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, next.String(), id, expected.String())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: service order %s is no longer in %s", domainerr.ErrConflict, id, expected)
	}
	return nil
}

func (r *ServiceOrderRepository) SetDeliveryDate(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE service_orders SET delivery_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, at, id); err != nil {
		r.logger.Error("Failed to set delivery date", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set delivery date: %w", err)
	}
	return nil
}

func (r *ServiceOrderRepository) SetCancellation(ctx context.Context, id string, reason string) error {
	query := `UPDATE service_orders SET cancellation_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, reason, id); err != nil {
		r.logger.Error("Failed to set cancellation reason", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set cancellation reason: %w", err)
	}
	return nil
}

func (r *ServiceOrderRepository) List(ctx context.Context, limit, offset int) ([]*entity.ServiceOrder, error) {
	query := `
		SELECT id, client_id, vehicle_id, status, request_date, delivery_date,
			cancellation_reason, notes, created_at, updated_at
		FROM service_orders
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.ServiceOrder
	for rows.Next() {
		var order entity.ServiceOrder
		var status string
		var deliveryDate sql.NullTime
		var cancellationReason, notes sql.NullString

		if err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.VehicleID,
			&status,
			&order.RequestDate,
			&deliveryDate,
			&cancellationReason,
			&notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service order: %w", err)
		}

		order.Status = workflow.State(status)
		if deliveryDate.Valid {
			order.DeliveryDate = &deliveryDate.Time
		}
		order.CancellationReason = cancellationReason.String
		order.Notes = notes.String
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}
