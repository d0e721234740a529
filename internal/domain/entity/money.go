package entity

import (
	"fmt"

	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
)

// Money is a non-negative currency amount stored as integer cents.
type Money struct {
	cents int64
}

// NewMoney creates a Money value from integer cents
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, fmt.Errorf("%w: amount must be non-negative, got %d cents", domainerr.ErrValidation, cents)
	}
	return Money{cents: cents}, nil
}

// MustMoney creates a Money value from integer cents, panicking on negative
// input. For literals in wiring and tests only.
func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the raw amount in integer cents
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Times returns the amount multiplied by a quantity
func (m Money) Times(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// IsZero returns true for a zero amount
func (m Money) IsZero() bool {
	return m.cents == 0
}

// String renders the amount as a plain decimal, e.g. "149.90"
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
