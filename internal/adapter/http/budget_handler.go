package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/application/service"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/result"
)

// BudgetHandler serves the budget endpoints
type BudgetHandler struct {
	budgets  service.BudgetService
	approval service.ApprovalService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgets service.BudgetService, approval service.ApprovalService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, approval: approval}
}

// Create handles POST /api/v1/budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domainerr.ErrValidation, err.Error()))
		return
	}

	budget, err := h.budgets.CreateForServiceOrder(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// Get handles GET /api/v1/budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	respondResult(c, http.StatusOK, h.budgets.Get(c.Request.Context(), c.Param("id")))
}

// Send handles POST /api/v1/budgets/:id/send
func (h *BudgetHandler) Send(c *gin.Context) {
	h.act(c, h.budgets.Send)
}

// Receive handles POST /api/v1/budgets/:id/receive
func (h *BudgetHandler) Receive(c *gin.Context) {
	h.act(c, h.budgets.MarkReceived)
}

// Approve handles POST /api/v1/budgets/:id/approve
func (h *BudgetHandler) Approve(c *gin.Context) {
	h.act(c, h.approval.Approve)
}

// Reject handles POST /api/v1/budgets/:id/reject
func (h *BudgetHandler) Reject(c *gin.Context) {
	h.act(c, h.budgets.Reject)
}

type budgetAction func(ctx context.Context, id string, actor port.Actor) result.Result[*service.BudgetSnapshot]

func (h *BudgetHandler) act(c *gin.Context, action budgetAction) {
	actor, err := actorFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, action(c.Request.Context(), c.Param("id"), actor))
}

func respondResult(c *gin.Context, status int, res result.Result[*service.BudgetSnapshot]) {
	if res.IsFailure() {
		respondError(c, res.Err())
		return
	}
	c.JSON(status, res.Value())
}
