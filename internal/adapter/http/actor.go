package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
	"github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// Identity headers set by the gateway in front of this service
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// actorFrom resolves the acting user from the identity headers
func actorFrom(c *gin.Context) (port.Actor, error) {
	userID := c.GetHeader(headerUserID)
	role := workflow.Role(c.GetHeader(headerUserRole))

	if userID == "" {
		return port.Actor{}, fmt.Errorf("%w: missing %s header", domainerr.ErrUnauthorized, headerUserID)
	}
	if !role.IsValid() {
		return port.Actor{}, fmt.Errorf("%w: unknown role %q", domainerr.ErrUnauthorized, role)
	}
	return port.Actor{UserID: userID, Role: role}, nil
}
