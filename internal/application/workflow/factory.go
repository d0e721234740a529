package workflow

import (
	domainwf "github.com/garagehub/repair-workflow/internal/domain/workflow"
)

// BuildServiceOrderGraph configures the repair-order lifecycle.
//
// Clients may only decide on budgets (approve/reject); every shop-floor
// move requires EMPLOYEE or ADMIN, and cancellation is ADMIN only from any
// non-terminal state.
func BuildServiceOrderGraph() *domainwf.Graph {
	staff := []domainwf.Role{domainwf.RoleEmployee, domainwf.RoleAdmin}
	decision := []domainwf.Role{domainwf.RoleClient, domainwf.RoleEmployee, domainwf.RoleAdmin}

	b := domainwf.NewBuilder("service_order",
		domainwf.OrderRequested,
		domainwf.OrderReceived,
		domainwf.OrderInDiagnosis,
		domainwf.OrderApproved,
		domainwf.OrderRejected,
		domainwf.OrderInExecution,
		domainwf.OrderFinished,
		domainwf.OrderDelivered,
		domainwf.OrderCancelled,
	).Terminal(domainwf.OrderDelivered, domainwf.OrderCancelled)

	b.Configure(domainwf.OrderRequested).
		Permit(domainwf.OrderReceived, staff...).
		Permit(domainwf.OrderInDiagnosis, staff...).
		Permit(domainwf.OrderApproved, decision...).
		Permit(domainwf.OrderRejected, decision...).
		Permit(domainwf.OrderInExecution, staff...).
		Permit(domainwf.OrderFinished, staff...).
		Permit(domainwf.OrderDelivered, staff...)

	b.Configure(domainwf.OrderReceived).
		Permit(domainwf.OrderInDiagnosis, staff...)

	b.Configure(domainwf.OrderInDiagnosis).
		Permit(domainwf.OrderApproved, decision...).
		Permit(domainwf.OrderRejected, decision...)

	b.Configure(domainwf.OrderApproved).
		Permit(domainwf.OrderInExecution, staff...)

	b.Configure(domainwf.OrderInExecution).
		Permit(domainwf.OrderFinished, staff...)

	b.Configure(domainwf.OrderFinished).
		Permit(domainwf.OrderDelivered, staff...)

	// REJECTED orders can still be delivered back to the client
	b.Configure(domainwf.OrderRejected).
		Permit(domainwf.OrderDelivered, staff...)

	b.PermitFromAll(domainwf.OrderCancelled, domainwf.RoleAdmin)

	return b.Build()
}

// BuildBudgetGraph configures the budget lifecycle. Approval additionally
// requires the stock check and a non-expired budget; those guards live in
// the approval use case, the graph only owns edges and roles.
func BuildBudgetGraph() *domainwf.Graph {
	staff := []domainwf.Role{domainwf.RoleEmployee, domainwf.RoleAdmin}
	decision := []domainwf.Role{domainwf.RoleClient, domainwf.RoleEmployee, domainwf.RoleAdmin}

	b := domainwf.NewBuilder("budget",
		domainwf.BudgetGenerated,
		domainwf.BudgetSent,
		domainwf.BudgetApproved,
		domainwf.BudgetRejected,
		domainwf.BudgetReceived,
	).Terminal(domainwf.BudgetApproved, domainwf.BudgetRejected, domainwf.BudgetReceived)

	b.Configure(domainwf.BudgetGenerated).
		Permit(domainwf.BudgetSent, staff...)

	// SENT is the only decidable state; a second approval of an already
	// APPROVED budget fails as an illegal edge rather than double-publishing.
	b.Configure(domainwf.BudgetSent).
		Permit(domainwf.BudgetApproved, decision...).
		Permit(domainwf.BudgetRejected, decision...).
		Permit(domainwf.BudgetReceived, decision...)

	return b.Build()
}
