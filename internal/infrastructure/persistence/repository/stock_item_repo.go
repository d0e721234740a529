package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/infrastructure/persistence/sqlite"
)

// StockItemRepository implements port.StockItemRepository on sqlite
type StockItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStockItemRepository creates a new stock item repository
func NewStockItemRepository(db *sql.DB, logger *zap.Logger) port.StockItemRepository {
	return &StockItemRepository{db: db, logger: logger}
}

func (r *StockItemRepository) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `
		SELECT id, name, current_stock, min_stock_level, unit_cents, updated_at
		FROM stock_items
		WHERE id = ?
	`

	var item entity.StockItem
	var unitCents int64

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.CurrentStock,
		&item.MinStockLevel,
		&unitCents,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get stock item", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}

	item.UnitPrice = entity.MustMoney(unitCents)
	return &item, nil
}

func (r *StockItemRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.StockItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT id, name, current_stock, min_stock_level, unit_cents, updated_at
		FROM stock_items
		WHERE id IN (%s)
	`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockItem
	for rows.Next() {
		var item entity.StockItem
		var unitCents int64

		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.CurrentStock,
			&item.MinStockLevel,
			&unitCents,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}

		item.UnitPrice = entity.MustMoney(unitCents)
		items = append(items, &item)
	}

	return items, rows.Err()
}
