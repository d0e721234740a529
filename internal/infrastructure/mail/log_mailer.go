// Package mail provides the Mailer implementation. Delivery through a
// real provider is configured per deployment; the default adapter writes
// the message to the structured log, which is enough for development and
// for tests.
package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/port"
)

// LogMailer implements port.Mailer by logging the outgoing message
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-backed mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, mail port.Mail) error {
	m.logger.Info("Outgoing mail",
		zap.String("to", mail.To),
		zap.String("name", mail.Name),
		zap.String("subject", mail.Subject),
		zap.String("body", mail.Body),
	)
	return nil
}
