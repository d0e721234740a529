package entity

import "time"

// Client is the workshop customer referenced by orders and budgets.
// Client CRUD lives outside the workflow core; this entity exists so
// reactions can resolve name and email for notifications.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
