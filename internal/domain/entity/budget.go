package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// DeliveryMethod is how the budget is delivered to the client
type DeliveryMethod string

const (
	DeliveryEmail    DeliveryMethod = "EMAIL"
	DeliveryInPerson DeliveryMethod = "IN_PERSON"
)

// Budget is the repair budget aggregate. One budget belongs to exactly one
// service order by convention (not structurally enforced).
type Budget struct {
	ID             string         `json:"id"`
	ServiceOrderID string         `json:"service_order_id"`
	ClientID       string         `json:"client_id"`
	Status         workflow.State `json:"status"`
	TotalAmount    Money          `json:"-"`
	ValidityDays   int            `json:"validity_days"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	GenerationDate time.Time      `json:"generation_date"`
	SentDate       *time.Time     `json:"sent_date,omitempty"`
	ApprovalDate   *time.Time     `json:"approval_date,omitempty"`
	RejectionDate  *time.Time     `json:"rejection_date,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewBudget creates a budget in the GENERATED state
func NewBudget(serviceOrderID, clientID string, validityDays int, method DeliveryMethod, notes string) *Budget {
	now := time.Now()
	return &Budget{
		ID:             uuid.NewString(),
		ServiceOrderID: serviceOrderID,
		ClientID:       clientID,
		Status:         workflow.BudgetGenerated,
		ValidityDays:   validityDays,
		DeliveryMethod: method,
		GenerationDate: now,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsExpired reports whether the validity period has elapsed at the given
// instant. Expiration is derived from GenerationDate and ValidityDays on
// every evaluation; it is never persisted as a flag.
func (b *Budget) IsExpired(now time.Time) bool {
	return now.After(b.GenerationDate.AddDate(0, 0, b.ValidityDays))
}
