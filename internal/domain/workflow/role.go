package workflow

// Role identifies the kind of actor requesting a state transition
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

var validRoles = map[Role]bool{
	RoleClient:   true,
	RoleEmployee: true,
	RoleAdmin:    true,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is one of the known actor roles
func (r Role) IsValid() bool {
	return validRoles[r]
}
