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

// BudgetItemRepository implements port.BudgetItemRepository on sqlite
type BudgetItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBudgetItemRepository creates a new budget item repository
func NewBudgetItemRepository(db *sql.DB, logger *zap.Logger) port.BudgetItemRepository {
	return &BudgetItemRepository{db: db, logger: logger}
}

func (r *BudgetItemRepository) Create(ctx context.Context, item *entity.BudgetItem) error {
	// The line invariant is re-checked at the persistence boundary too
	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO budget_items (
			id, budget_id, type, description, quantity,
			unit_cents, total_cents, service_id, stock_item_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		item.ID,
		item.BudgetID,
		string(item.Type),
		item.Description,
		item.Quantity,
		item.UnitPrice.Cents(),
		item.TotalPrice.Cents(),
		nullable(item.ServiceID),
		nullable(item.StockItemID),
	)
	if err != nil {
		r.logger.Error("Failed to create budget item", zap.Error(err))
		return fmt.Errorf("failed to create budget item: %w", err)
	}
	return nil
}

func (r *BudgetItemRepository) GetByBudgetID(ctx context.Context, budgetID string) ([]*entity.BudgetItem, error) {
	query := `
		SELECT id, budget_id, type, description, quantity,
			unit_cents, total_cents, service_id, stock_item_id
		FROM budget_items
		WHERE budget_id = ?
		ORDER BY rowid
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget items: %w", err)
	}
	defer rows.Close()

	var items []*entity.BudgetItem
	for rows.Next() {
		var item entity.BudgetItem
		var itemType string
		var unitCents, totalCents int64
		var serviceID, stockItemID sql.NullString

		if err := rows.Scan(
			&item.ID,
			&item.BudgetID,
			&itemType,
			&item.Description,
			&item.Quantity,
			&unitCents,
			&totalCents,
			&serviceID,
			&stockItemID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget item: %w", err)
		}

		item.Type = entity.BudgetItemType(itemType)
		item.UnitPrice = entity.MustMoney(unitCents)
		item.TotalPrice = entity.MustMoney(totalCents)
		item.ServiceID = serviceID.String
		item.StockItemID = stockItemID.String
		items = append(items, &item)
	}

	return items, rows.Err()
}

// nullable maps empty strings to NULL so partial-reference invariants
// survive in storage.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
