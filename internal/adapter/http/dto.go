package http

import (
	"github.com/garagehub/repair-workflow/internal/application/service"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
)

// IntakeRequest registers a new repair order
type IntakeRequest struct {
	ClientID  string `json:"client_id" binding:"required"`
	VehicleID string `json:"vehicle_id" binding:"required"`
	Notes     string `json:"notes"`
}

// TransitionRequest moves an order to a target status
type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
	Reason string `json:"reason"`
}

// BudgetItemRequest is one requested budget line
type BudgetItemRequest struct {
	Type        string `json:"type" binding:"required"`
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	UnitCents   int64  `json:"unit_cents" binding:"required"`
	ServiceID   string `json:"service_id"`
	StockItemID string `json:"stock_item_id"`
}

// CreateBudgetRequest creates a budget for a service order
type CreateBudgetRequest struct {
	ServiceOrderID string              `json:"service_order_id" binding:"required"`
	ClientID       string              `json:"client_id" binding:"required"`
	ValidityDays   int                 `json:"validity_days"`
	DeliveryMethod string              `json:"delivery_method"`
	Notes          string              `json:"notes"`
	Items          []BudgetItemRequest `json:"items"`
}

func (r *CreateBudgetRequest) toInput() service.CreateBudgetInput {
	items := make([]service.BudgetItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, service.BudgetItemInput{
			Type:        entity.BudgetItemType(it.Type),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitCents:   it.UnitCents,
			ServiceID:   it.ServiceID,
			StockItemID: it.StockItemID,
		})
	}
	return service.CreateBudgetInput{
		ServiceOrderID: r.ServiceOrderID,
		ClientID:       r.ClientID,
		ValidityDays:   r.ValidityDays,
		DeliveryMethod: entity.DeliveryMethod(r.DeliveryMethod),
		Notes:          r.Notes,
		Items:          items,
	}
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse wraps a page of results
type ListResponse[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
