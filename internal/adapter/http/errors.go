package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
)

// statusFor maps domain error kinds to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domainerr.ErrInvalidTransition), errors.Is(err, domainerr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrValidation),
		errors.Is(err, domainerr.ErrInsufficientStock),
		errors.Is(err, domainerr.ErrBudgetExpired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// internal detail stays in the logs
		msg = "internal error"
	}
	c.JSON(status, ErrorResponse{Error: msg})
}
