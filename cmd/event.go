package cmd

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

var auditedEvents = []string{
	events.EventTypeExpenseCreated,
	events.EventTypeExpenseUpdated,
	events.EventTypeExpenseDeleted,
	events.EventTypeExpensesImported,
}

// newEventBus returns a bus with the audit logger subscribed to every
// expense event.
func newEventBus(logger *slog.Logger) *events.EventBus {
	bus := events.NewEventBus(logger)
	audit := logger.With("component", "audit")

	for _, eventType := range auditedEvents {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			audit.InfoContext(ctx, "expense event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}

	return bus
}
