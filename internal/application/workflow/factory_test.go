package workflow

import (
	"testing"

	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

func TestServiceOrderGraphEdges(t *testing.T) {
	g := BuildServiceOrderGraph()

	tests := []struct {
		name string
		from domainwf.State
		to   domainwf.State
		role domainwf.Role
		want bool
	}{
		{"employee starts diagnosis", domainwf.OrderRequested, domainwf.OrderInDiagnosis, domainwf.RoleEmployee, true},
		{"client cannot start diagnosis", domainwf.OrderRequested, domainwf.OrderInDiagnosis, domainwf.RoleClient, false},
		{"client approves from requested", domainwf.OrderRequested, domainwf.OrderApproved, domainwf.RoleClient, true},
		{"client rejects from requested", domainwf.OrderRequested, domainwf.OrderRejected, domainwf.RoleClient, true},
		{"client cannot move to execution", domainwf.OrderRequested, domainwf.OrderInExecution, domainwf.RoleClient, false},
		{"client cannot finish", domainwf.OrderRequested, domainwf.OrderFinished, domainwf.RoleClient, false},
		{"client cannot deliver", domainwf.OrderRequested, domainwf.OrderDelivered, domainwf.RoleClient, false},
		{"staff receives the vehicle", domainwf.OrderRequested, domainwf.OrderReceived, domainwf.RoleEmployee, true},
		{"received moves to diagnosis", domainwf.OrderReceived, domainwf.OrderInDiagnosis, domainwf.RoleAdmin, true},
		{"diagnosis is decided by the client", domainwf.OrderInDiagnosis, domainwf.OrderApproved, domainwf.RoleClient, true},
		{"approved goes to execution", domainwf.OrderApproved, domainwf.OrderInExecution, domainwf.RoleEmployee, true},
		{"execution finishes", domainwf.OrderInExecution, domainwf.OrderFinished, domainwf.RoleEmployee, true},
		{"finished is delivered", domainwf.OrderFinished, domainwf.OrderDelivered, domainwf.RoleEmployee, true},
		{"rejected is delivered back", domainwf.OrderRejected, domainwf.OrderDelivered, domainwf.RoleEmployee, true},
		{"admin cancels from any active state", domainwf.OrderInExecution, domainwf.OrderCancelled, domainwf.RoleAdmin, true},
		{"employee cannot cancel", domainwf.OrderInExecution, domainwf.OrderCancelled, domainwf.RoleEmployee, false},
		{"client cannot cancel", domainwf.OrderRequested, domainwf.OrderCancelled, domainwf.RoleClient, false},
		{"no edge backwards", domainwf.OrderFinished, domainwf.OrderInExecution, domainwf.RoleAdmin, false},
		{"delivered is terminal", domainwf.OrderDelivered, domainwf.OrderCancelled, domainwf.RoleAdmin, false},
		{"cancelled is terminal", domainwf.OrderCancelled, domainwf.OrderRequested, domainwf.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CanTransition(tt.from, tt.to, tt.role); got != tt.want {
				t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.role, got, tt.want)
			}
		})
	}
}

func TestBudgetGraphEdges(t *testing.T) {
	g := BuildBudgetGraph()

	tests := []struct {
		name string
		from domainwf.State
		to   domainwf.State
		role domainwf.Role
		want bool
	}{
		{"staff sends a generated budget", domainwf.BudgetGenerated, domainwf.BudgetSent, domainwf.RoleEmployee, true},
		{"client cannot send", domainwf.BudgetGenerated, domainwf.BudgetSent, domainwf.RoleClient, false},
		{"client approves a sent budget", domainwf.BudgetSent, domainwf.BudgetApproved, domainwf.RoleClient, true},
		{"client rejects a sent budget", domainwf.BudgetSent, domainwf.BudgetRejected, domainwf.RoleClient, true},
		{"client acknowledges reception", domainwf.BudgetSent, domainwf.BudgetReceived, domainwf.RoleClient, true},
		{"generated cannot be approved directly", domainwf.BudgetGenerated, domainwf.BudgetApproved, domainwf.RoleAdmin, false},
		{"approved is terminal even for admin", domainwf.BudgetApproved, domainwf.BudgetApproved, domainwf.RoleAdmin, false},
		{"rejected is terminal", domainwf.BudgetRejected, domainwf.BudgetSent, domainwf.RoleAdmin, false},
		{"received is terminal", domainwf.BudgetReceived, domainwf.BudgetApproved, domainwf.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CanTransition(tt.from, tt.to, tt.role); got != tt.want {
				t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.role, got, tt.want)
			}
		})
	}
}
