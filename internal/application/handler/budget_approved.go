package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/application/service"
	"github.com/garagehub/repair-workflow/internal/domain/event"
)

// BudgetApprovedReaction notifies the client after a budget approval is
// committed. Content stays minimal on purpose; rendering beyond this
// subject/body pair belongs to the mailer implementation.
type BudgetApprovedReaction struct {
	mailer port.Mailer
	logger service.Logger
}

// NewBudgetApprovedReaction creates the reaction
func NewBudgetApprovedReaction(mailer port.Mailer, logger service.Logger) *BudgetApprovedReaction {
	return &BudgetApprovedReaction{mailer: mailer, logger: logger}
}

func (r *BudgetApprovedReaction) Name() string {
	return "notify-client-approval"
}

func (r *BudgetApprovedReaction) EventType() event.Type {
	return event.TypeBudgetApproved
}

func (r *BudgetApprovedReaction) Handle(ctx context.Context, evt *event.Event) error {
	email := evt.GetString("client_email")
	if email == "" {
		// No address on record; nothing to send, not a failure.
		r.logger.Info("Skipping approval notification, client has no email",
			"budget_id", evt.AggregateID,
			"client_id", evt.GetString("client_id"),
		)
		return nil
	}

	approvedAt := evt.GetTime("approved_at")
	if approvedAt.IsZero() {
		approvedAt = evt.Timestamp
	}

	mail := port.Mail{
		To:      email,
		Name:    evt.GetString("client_name"),
		Subject: "Your repair budget was approved",
		Body: fmt.Sprintf("Budget %s totaling %s was approved on %s.",
			evt.AggregateID,
			evt.GetString("budget_total"),
			approvedAt.Format(time.RFC1123),
		),
	}

	if err := r.mailer.Send(ctx, mail); err != nil {
		r.logger.Error("Approval notification failed",
			"budget_id", evt.AggregateID,
			"client_email", email,
			"error", err,
		)
		return err
	}

	r.logger.Info("Approval notification sent", "budget_id", evt.AggregateID, "client_email", email)
	return nil
}
