package port

import "context"

// Mail is a fully rendered message; content generation happens before
// this boundary.
type Mail struct {
	To      string
	Name    string
	Subject string
	Body    string
}

// Mailer sends client notifications
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
