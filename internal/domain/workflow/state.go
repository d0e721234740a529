package workflow

// State represents an aggregate lifecycle state
type State string

// ServiceOrder states
const (
	OrderRequested   State = "REQUESTED"
	OrderReceived    State = "RECEIVED"
	OrderInDiagnosis State = "IN_DIAGNOSIS"
	OrderApproved    State = "APPROVED"
	OrderRejected    State = "REJECTED"
	OrderInExecution State = "IN_EXECUTION"
	OrderFinished    State = "FINISHED"
	OrderDelivered   State = "DELIVERED"
	OrderCancelled   State = "CANCELLED"
)

// Budget states
const (
	BudgetGenerated State = "GENERATED"
	BudgetSent      State = "SENT"
	BudgetApproved  State = "APPROVED"
	BudgetRejected  State = "REJECTED"
	BudgetReceived  State = "RECEIVED"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
