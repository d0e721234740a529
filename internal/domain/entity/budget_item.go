package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
)

// BudgetItemType discriminates between labor and parts lines
type BudgetItemType string

const (
	ItemService   BudgetItemType = "SERVICE"
	ItemStockItem BudgetItemType = "STOCK_ITEM"
)

// BudgetItem is one line of a budget. Exactly one of ServiceID or
// StockItemID must be set and it must match Type; this invariant is
// validated at every create and update boundary.
type BudgetItem struct {
	ID          string         `json:"id"`
	BudgetID    string         `json:"budget_id"`
	Type        BudgetItemType `json:"type"`
	Description string         `json:"description"`
	Quantity    int            `json:"quantity"`
	UnitPrice   Money          `json:"-"`
	TotalPrice  Money          `json:"-"`
	ServiceID   string         `json:"service_id,omitempty"`
	StockItemID string         `json:"stock_item_id,omitempty"`
}

// NewBudgetItem creates a validated budget line with TotalPrice derived
// from UnitPrice and Quantity.
func NewBudgetItem(budgetID string, itemType BudgetItemType, description string, quantity int, unitPrice Money, serviceID, stockItemID string) (*BudgetItem, error) {
	item := &BudgetItem{
		ID:          uuid.NewString(),
		BudgetID:    budgetID,
		Type:        itemType,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Times(quantity),
		ServiceID:   serviceID,
		StockItemID: stockItemID,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the line invariants. Each violating field combination
// fails with its own message so callers can tell them apart.
func (i *BudgetItem) Validate() error {
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domainerr.ErrValidation, i.Quantity)
	}

	switch i.Type {
	case ItemService:
		if i.ServiceID != "" && i.StockItemID != "" {
			return fmt.Errorf("%w: service line cannot reference both a service and a stock item", domainerr.ErrValidation)
		}
		if i.ServiceID == "" {
			return fmt.Errorf("%w: service line requires a service reference", domainerr.ErrValidation)
		}
		if i.StockItemID != "" {
			return fmt.Errorf("%w: service line must not reference a stock item", domainerr.ErrValidation)
		}
	case ItemStockItem:
		if i.ServiceID != "" && i.StockItemID != "" {
			return fmt.Errorf("%w: stock line cannot reference both a service and a stock item", domainerr.ErrValidation)
		}
		if i.StockItemID == "" {
			return fmt.Errorf("%w: stock line requires a stock item reference", domainerr.ErrValidation)
		}
		if i.ServiceID != "" {
			return fmt.Errorf("%w: stock line must not reference a service", domainerr.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown budget item type %q", domainerr.ErrValidation, i.Type)
	}

	return nil
}
