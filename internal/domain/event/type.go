package event

// Type identifies the type of domain event. The set is closed: the
// dispatcher only accepts types that pass IsValid, so adding an event kind
// means extending this enum rather than matching on free-form strings.
type Type string

const (
	TypeServiceOrderReceived Type = "service_order.received"
	TypeOrderStatusChanged   Type = "service_order.status_changed"
	TypeBudgetGenerated      Type = "budget.generated"
	TypeBudgetSent           Type = "budget.sent"
	TypeBudgetApproved       Type = "budget.approved"
	TypeBudgetRejected       Type = "budget.rejected"
	TypeBudgetReceived       Type = "budget.received"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeServiceOrderReceived,
		TypeOrderStatusChanged,
		TypeBudgetGenerated,
		TypeBudgetSent,
		TypeBudgetApproved,
		TypeBudgetRejected,
		TypeBudgetReceived:
		return true
	default:
		return false
	}
}
