package port

import "github.com/garagehub/repair-workflow/internal/domain/workflow"

// Actor is the authenticated caller of a use case, resolved by the
// transport layer.
type Actor struct {
	UserID string
	Role   workflow.Role
}

// System is the actor used for transitions triggered by reactions rather
// than a human caller.
var System = Actor{UserID: "system", Role: workflow.RoleAdmin}
