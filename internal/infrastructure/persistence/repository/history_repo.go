package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository on sqlite
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

func (r *HistoryRepository) Create(ctx context.Context, row *entity.StatusHistory) error {
	query := `
		INSERT INTO status_history (
			aggregate_type, aggregate_id, actor_id, actor_role,
			previous_status, new_status, reason, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		row.AggregateType,
		row.AggregateID,
		row.ActorID,
		row.ActorRole,
		row.PreviousStatus,
		row.NewStatus,
		row.Reason,
		row.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history row", zap.Error(err))
		return fmt.Errorf("failed to create history row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	row.ID = id
	return nil
}

func (r *HistoryRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, actor_id, actor_role,
			previous_status, new_status, reason, timestamp
		FROM status_history
		WHERE aggregate_type = ? AND aggregate_id = ?
		ORDER BY id
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, aggregateType, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []*entity.StatusHistory
	for rows.Next() {
		var row entity.StatusHistory
		var reason sql.NullString

		if err := rows.Scan(
			&row.ID,
			&row.AggregateType,
			&row.AggregateID,
			&row.ActorID,
			&row.ActorRole,
			&row.PreviousStatus,
			&row.NewStatus,
			&reason,
			&row.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		row.Reason = reason.String
		out = append(out, &row)
	}

	return out, rows.Err()
}
