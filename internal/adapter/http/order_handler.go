package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garagehub/repair-workflow/internal/application/service"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// OrderHandler serves the service-order endpoints
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /api/v1/service-orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domainerr.ErrValidation, err.Error()))
		return
	}

	order, err := h.orders.Intake(c.Request.Context(), req.ClientID, req.VehicleID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/v1/service-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List handles GET /api/v1/service-orders
func (h *OrderHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := h.orders.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[*entity.ServiceOrder]{Data: orders, Limit: limit, Offset: offset})
}

// Transition handles PATCH /api/v1/service-orders/:id/status
func (h *OrderHandler) Transition(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domainerr.ErrValidation, err.Error()))
		return
	}

	target := workflow.State(req.Target)
	order, err := h.orders.Transition(c.Request.Context(), c.Param("id"), target, actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
