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

// BudgetRepository implements port.BudgetRepository on sqlite. Amounts are
// stored as integer cents.
type BudgetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *sql.DB, logger *zap.Logger) port.BudgetRepository {
	return &BudgetRepository{db: db, logger: logger}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	query := `
		INSERT INTO budgets (
			id, service_order_id, client_id, status, total_cents,
			validity_days, delivery_method, generation_date, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		budget.ID,
		budget.ServiceOrderID,
		budget.ClientID,
		budget.Status.String(),
		budget.TotalAmount.Cents(),
		budget.ValidityDays,
		string(budget.DeliveryMethod),
		budget.GenerationDate,
		budget.Notes,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create budget", zap.Error(err))
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*entity.Budget, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *BudgetRepository) GetByServiceOrderID(ctx context.Context, serviceOrderID string) (*entity.Budget, error) {
	return r.getOne(ctx, `WHERE service_order_id = ?`, serviceOrderID)
}

func (r *BudgetRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.Budget, error) {
	query := `
		SELECT id, service_order_id, client_id, status, total_cents,
			validity_days, delivery_method, generation_date, sent_date,
			approval_date, rejection_date, notes, created_at, updated_at
		FROM budgets ` + where

	var budget entity.Budget
	var status, method string
	var totalCents int64
	var sentDate, approvalDate, rejectionDate sql.NullTime
	var notes sql.NullString

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&budget.ID,
		&budget.ServiceOrderID,
		&budget.ClientID,
		&status,
		&totalCents,
		&budget.ValidityDays,
		&method,
		&budget.GenerationDate,
		&sentDate,
		&approvalDate,
		&rejectionDate,
		&notes,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get budget", zap.Error(err))
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	budget.Status = workflow.State(status)
	budget.DeliveryMethod = entity.DeliveryMethod(method)
	budget.TotalAmount = entity.MustMoney(totalCents)
	if sentDate.Valid {
		budget.SentDate = &sentDate.Time
	}
	if approvalDate.Valid {
		budget.ApprovalDate = &approvalDate.Time
	}
	if rejectionDate.Valid {
		budget.RejectionDate = &rejectionDate.Time
	}
	budget.Notes = notes.String

	return &budget, nil
}

// UpdateStatus is a compare-and-set keyed by the expected prior status; it
// also stamps the date column matching the target state so two racing
// approvals cannot both commit.
func (r *BudgetRepository) UpdateStatus(ctx context.Context, id string, expected, next workflow.State, at time.Time) error {
	dateColumn := ""
	switch next {
	case workflow.BudgetSent:
		dateColumn = ", sent_date = ?"
	case workflow.BudgetApproved:
		dateColumn = ", approval_date = ?"
	case workflow.BudgetRejected:
		dateColumn = ", rejection_date = ?"
	}

	query := `UPDATE budgets SET status = ?, updated_at = CURRENT_TIMESTAMP` + dateColumn + ` WHERE id = ? AND status = ?`

	args := []interface{}{next.String()}
	if dateColumn != "" {
		args = append(args, at)
	}
	args = append(args, id, expected.String())

	res, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update budget status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update budget status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %s is no longer in %s", domainerr.ErrConflict, id, expected)
	}
	return nil
}
