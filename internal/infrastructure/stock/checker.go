// Package stock implements the StockAvailabilityChecker collaborator:
// sqlite holds the inventory levels, redis holds short-lived reservation
// counters so two in-flight approvals cannot both claim the same parts.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/result"
)

const (
	// Reservation counter per stock item: stock:reserved:{item_id}
	keyReserved = "stock:reserved:%s"

	// Reservation marker per budget: stock:claim:{budget_id}
	keyClaim = "stock:claim:%s"
)

// TTLReservation bounds how long a passed check holds parts before the
// execution flow consumes or releases them.
var TTLReservation = 30 * time.Minute

// Checker answers the aggregate availability question for a budget
type Checker struct {
	items  port.StockItemRepository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewChecker creates a stock availability checker. rdb may be nil, in
// which case availability is computed from persisted levels only and no
// reservation is placed.
func NewChecker(items port.StockItemRepository, rdb *redis.Client, logger *zap.Logger) *Checker {
	return &Checker{items: items, rdb: rdb, logger: logger}
}

// Check reports whether every line can be fulfilled. The answer covers
// the whole budget: one short line makes the entire check false. On
// success a reservation counter is bumped per item so concurrent checks
// see the claimed quantities.
func (c *Checker) Check(ctx context.Context, budgetID string, lines []port.StockLine) result.Result[bool] {
	if len(lines) == 0 {
		return result.Ok(true)
	}

	// A budget that already holds a claim re-checks as available; a
	// repeated approval attempt must not double-reserve.
	if c.rdb != nil {
		claimed, err := c.rdb.Exists(ctx, fmt.Sprintf(keyClaim, budgetID)).Result()
		if err != nil {
			return result.Fail[bool](fmt.Errorf("%w: reservation lookup: %v", domainerr.ErrPersistence, err))
		}
		if claimed > 0 {
			return result.Ok(true)
		}
	}

	ids := make([]string, 0, len(lines))
	wanted := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return result.Fail[bool](fmt.Errorf("%w: stock line quantity must be positive", domainerr.ErrValidation))
		}
		if _, ok := wanted[line.StockItemID]; !ok {
			ids = append(ids, line.StockItemID)
		}
		wanted[line.StockItemID] += line.Quantity
	}

	items, err := c.items.GetByIDs(ctx, ids)
	if err != nil {
		return result.Fail[bool](fmt.Errorf("%w: load stock items: %v", domainerr.ErrPersistence, err))
	}

	levels := make(map[string]int, len(items))
	for _, it := range items {
		levels[it.ID] = it.CurrentStock
	}

	for _, id := range ids {
		available, ok := levels[id]
		if !ok {
			return result.Fail[bool](fmt.Errorf("%w: stock item %s", domainerr.ErrNotFound, id))
		}

		reserved, err := c.reserved(ctx, id)
		if err != nil {
			return result.Fail[bool](err)
		}

		if available-reserved < wanted[id] {
			c.logger.Info("Stock check failed",
				zap.String("budget_id", budgetID),
				zap.String("stock_item_id", id),
				zap.Int("available", available),
				zap.Int("reserved", reserved),
				zap.Int("wanted", wanted[id]),
			)
			return result.Ok(false)
		}
	}

	if err := c.reserve(ctx, budgetID, ids, wanted); err != nil {
		return result.Fail[bool](err)
	}
	return result.Ok(true)
}

func (c *Checker) reserved(ctx context.Context, itemID string) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}

	n, err := c.rdb.Get(ctx, fmt.Sprintf(keyReserved, itemID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: reservation counter read: %v", domainerr.ErrPersistence, err)
	}
	return n, nil
}

// reserve claims the quantities for the budget in one pipeline
func (c *Checker) reserve(ctx context.Context, budgetID string, ids []string, wanted map[string]int) error {
	if c.rdb == nil {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	for _, id := range ids {
		key := fmt.Sprintf(keyReserved, id)
		pipe.IncrBy(ctx, key, int64(wanted[id]))
		pipe.Expire(ctx, key, TTLReservation)
	}
	pipe.Set(ctx, fmt.Sprintf(keyClaim, budgetID), "1", TTLReservation)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: place reservation: %v", domainerr.ErrPersistence, err)
	}
	return nil
}
