package port

import (
	"context"

	"github.com/garagehub/repair-workflow/internal/domain/result"
)

// StockLine is one stock-backed budget line submitted to the checker
type StockLine struct {
	StockItemID string
	Quantity    int
}

// StockAvailabilityChecker decides, in a single aggregate call, whether
// every stock line of a budget can be fulfilled. The answer is
// all-or-nothing: Ok(false) means the whole budget is unavailable, there
// is no partial approval of the lines that happen to be in stock.
type StockAvailabilityChecker interface {
	Check(ctx context.Context, budgetID string, lines []StockLine) result.Result[bool]
}
