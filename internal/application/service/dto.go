package service

import (
	"time"

	"github.com/garagehub/repair-workflow/internal/domain/entity"
)

// BudgetSnapshot is the response projection of a budget returned by the
// budget use cases.
type BudgetSnapshot struct {
	ID             string     `json:"id"`
	ServiceOrderID string     `json:"service_order_id"`
	ClientID       string     `json:"client_id"`
	Status         string     `json:"status"`
	TotalCents     int64      `json:"total_cents"`
	Total          string     `json:"total"`
	ValidityDays   int        `json:"validity_days"`
	DeliveryMethod string     `json:"delivery_method"`
	GenerationDate time.Time  `json:"generation_date"`
	SentDate       *time.Time `json:"sent_date,omitempty"`
	ApprovalDate   *time.Time `json:"approval_date,omitempty"`
	RejectionDate  *time.Time `json:"rejection_date,omitempty"`
}

// SnapshotBudget projects a budget entity to its response shape
func SnapshotBudget(b *entity.Budget) *BudgetSnapshot {
	return &BudgetSnapshot{
		ID:             b.ID,
		ServiceOrderID: b.ServiceOrderID,
		ClientID:       b.ClientID,
		Status:         b.Status.String(),
		TotalCents:     b.TotalAmount.Cents(),
		Total:          b.TotalAmount.String(),
		ValidityDays:   b.ValidityDays,
		DeliveryMethod: string(b.DeliveryMethod),
		GenerationDate: b.GenerationDate,
		SentDate:       b.SentDate,
		ApprovalDate:   b.ApprovalDate,
		RejectionDate:  b.RejectionDate,
	}
}
