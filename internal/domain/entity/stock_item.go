package entity

import "time"

// StockItem is the parts inventory aggregate, referenced but not owned by
// the workflow core. The approval workflow only reads availability; stock
// mutation is delegated to the stock collaborator.
type StockItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CurrentStock  int       `json:"current_stock"`
	MinStockLevel int       `json:"min_stock_level"`
	UnitPrice     Money     `json:"-"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BelowMinimum reports whether current stock is under the reorder level
func (s *StockItem) BelowMinimum() bool {
	return s.CurrentStock < s.MinStockLevel
}
