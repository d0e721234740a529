package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// ServiceOrder is the repair order aggregate. It is created in REQUESTED by
// the client-facing intake action and mutated only through the transition
// graph; orders are never deleted, they end in DELIVERED or CANCELLED.
type ServiceOrder struct {
	ID                 string         `json:"id"`
	ClientID           string         `json:"client_id"`
	VehicleID          string         `json:"vehicle_id"`
	Status             workflow.State `json:"status"`
	RequestDate        time.Time      `json:"request_date"`
	DeliveryDate       *time.Time     `json:"delivery_date,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// NewServiceOrder creates an order in the REQUESTED state
func NewServiceOrder(clientID, vehicleID, notes string) *ServiceOrder {
	now := time.Now()
	return &ServiceOrder{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		VehicleID:   vehicleID,
		Status:      workflow.OrderRequested,
		RequestDate: now,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
