package notify

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskhub-api/internal/events"
)

// EmailNotifier reacts to TASK_CREATED events by notifying the task's owner.
//
// No mail transport is wired up in this deployment; the notifier records the
// delivery it would make, which is all the reference system does. Events of
// other types are ignored without error.
type EmailNotifier struct {
	logger *slog.Logger
}

// Ensure EmailNotifier implements events.EventHandler interface
var _ events.EventHandler = (*EmailNotifier)(nil)

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(log *slog.Logger) *EmailNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &EmailNotifier{
		logger: log.With(slog.String("component", "email_notifier")),
	}
}

// HandleEvent implements events.EventHandler.
func (n *EmailNotifier) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeTaskCreated {
		n.logger.Debug("ignoring event with unsupported type", "event_type", event.Type)
		return nil
	}

	var payload events.TaskCreatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return err
	}

	n.logger.Info("sending task created email",
		"email", payload.Email,
		"task_id", payload.TaskID,
		"title", payload.Title)
	return nil
}
