package eventbus

import (
	"context"
	"fmt"
	"time"

	"gigbridge/models"
	"gigbridge/services/invalidation"
	"gigbridge/services/notification"
	"gigbridge/services/tasks"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"go.uber.org/zap"
)

// reminderLead is how long before the booking start the reminder fires.
const reminderLead = time.Hour

// Handlers groups the side-effect consumers subscribed to booking events:
// the notification dispatcher, the cache invalidator, and the reminder
// scheduler. Adding a consumer means adding a handler here; the coordinator
// never learns about it.
type Handlers struct {
	Dispatcher  notification.Dispatcher
	Invalidator *invalidation.Invalidator
	Reminders   *tasks.Scheduler
	Logger      *zap.Logger
}

// bestEffort wraps a handler so failures are logged and acked. Booking events
// are never retried and never fail the committed write that triggered them.
func bestEffort[T any](name string, logger *zap.Logger, fn func(ctx context.Context, event *T) error) cqrs.EventHandler {
	return cqrs.NewEventHandler(name, func(ctx context.Context, event *T) error {
		if err := fn(ctx, event); err != nil {
			logger.Error("event handler failed",
				zap.String("handler", name),
				zap.Error(err))
		}
		return nil
	})
}

// All returns every registered event handler.
func (h *Handlers) All() []cqrs.EventHandler {
	return []cqrs.EventHandler{
		bestEffort("NotifyOnBookingCreated", h.Logger, h.notifyOnCreated),
		bestEffort("InvalidateOnBookingCreated", h.Logger, func(ctx context.Context, e *BookingCreated) error {
			return h.invalidate(ctx, e.Booking)
		}),
		bestEffort("NotifyOnBookingConfirmed", h.Logger, h.notifyOnConfirmed),
		bestEffort("ScheduleReminderOnBookingConfirmed", h.Logger, h.scheduleReminders),
		bestEffort("InvalidateOnBookingConfirmed", h.Logger, func(ctx context.Context, e *BookingConfirmed) error {
			return h.invalidate(ctx, e.Booking)
		}),
		bestEffort("InvalidateOnBookingStarted", h.Logger, func(ctx context.Context, e *BookingStarted) error {
			return h.invalidate(ctx, e.Booking)
		}),
		bestEffort("NotifyOnBookingCancelled", h.Logger, h.notifyOnCancelled),
		bestEffort("InvalidateOnBookingCancelled", h.Logger, func(ctx context.Context, e *BookingCancelled) error {
			return h.invalidate(ctx, e.Booking)
		}),
		bestEffort("NotifyOnBookingCompleted", h.Logger, h.notifyOnCompleted),
		bestEffort("InvalidateOnBookingCompleted", h.Logger, func(ctx context.Context, e *BookingCompleted) error {
			return h.invalidate(ctx, e.Booking)
		}),
	}
}

func (h *Handlers) invalidate(ctx context.Context, b models.Booking) error {
	return h.Invalidator.InvalidateBooking(ctx, b.ID, b.EventID, b.OrganizerAccountID, b.ProviderAccountID)
}

func bookingMetadata(b models.Booking) map[string]any {
	return map[string]any{
		"bookingId": b.ID,
		"eventId":   b.EventID,
		"start":     b.Start,
		"end":       b.End,
		"status":    string(b.Status),
	}
}

func (h *Handlers) notifyOnCreated(ctx context.Context, e *BookingCreated) error {
	return h.Dispatcher.SendNotification(ctx, notification.SendRequest{
		RecipientAccountID: e.Booking.ProviderAccountID,
		Type:               "booking_request",
		Title:              "New booking request",
		Message: fmt.Sprintf("You have a new booking request for %q on %s.",
			e.Event.Title, e.Booking.Start.Format("2 January, 3:04 PM")),
		Metadata:  bookingMetadata(e.Booking),
		Priority:  models.PriorityHigh,
		SendEmail: true,
	})
}

func (h *Handlers) notifyOnConfirmed(ctx context.Context, e *BookingConfirmed) error {
	return h.Dispatcher.SendNotification(ctx, notification.SendRequest{
		RecipientAccountID: e.Booking.OrganizerAccountID,
		Type:               "booking_confirmed",
		Title:              "Booking confirmed",
		Message: fmt.Sprintf("%s confirmed your booking for %q on %s.",
			e.Provider.DisplayName, e.Event.Title, e.Booking.Start.Format("2 January, 3:04 PM")),
		Metadata:  bookingMetadata(e.Booking),
		Priority:  models.PriorityHigh,
		SendEmail: true,
	})
}

func (h *Handlers) scheduleReminders(_ context.Context, e *BookingConfirmed) error {
	fireAt := e.Booking.Start.Add(-reminderLead)
	for _, accountID := range []string{e.Booking.OrganizerAccountID, e.Booking.ProviderAccountID} {
		payload := models.ReminderPayload{
			BookingID: e.Booking.ID,
			AccountID: accountID,
			Title:     "Upcoming booking",
			Body: fmt.Sprintf("Your booking for %q starts at %s.",
				e.Event.Title, e.Booking.Start.Format("3:04 PM")),
			FireAt: fireAt.Format(time.RFC3339),
		}
		if err := h.Reminders.ScheduleReminder(payload, fireAt); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) notifyOnCancelled(ctx context.Context, e *BookingCancelled) error {
	// Notify the party that did not act.
	recipient := e.Booking.OrganizerAccountID
	if e.Header.ActorAccountID == e.Booking.OrganizerAccountID {
		recipient = e.Booking.ProviderAccountID
	}

	message := fmt.Sprintf("The booking for %q on %s was cancelled.",
		e.Event.Title, e.Booking.Start.Format("2 January, 3:04 PM"))
	if e.Reason != "" {
		message += " Reason: " + e.Reason
	}

	return h.Dispatcher.SendNotification(ctx, notification.SendRequest{
		RecipientAccountID: recipient,
		Type:               "booking_cancelled",
		Title:              "Booking cancelled",
		Message:            message,
		Metadata:           bookingMetadata(e.Booking),
		Priority:           models.PriorityHigh,
		SendEmail:          true,
	})
}

func (h *Handlers) notifyOnCompleted(ctx context.Context, e *BookingCompleted) error {
	return h.Dispatcher.SendNotification(ctx, notification.SendRequest{
		RecipientAccountID: e.Booking.OrganizerAccountID,
		Type:               "booking_completed",
		Title:              "Booking completed",
		Message: fmt.Sprintf("Your booking with %s for %q is complete.",
			e.Provider.DisplayName, e.Event.Title),
		Metadata:  bookingMetadata(e.Booking),
		Priority:  models.PriorityNormal,
		SendEmail: false,
	})
}
