package eventbus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gigbridge/cache"
	"gigbridge/models"
	"gigbridge/services/invalidation"
	"gigbridge/services/notification"
	"gigbridge/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	requests []notification.SendRequest
	err      error
}

func (d *recordingDispatcher) SendNotification(_ context.Context, req notification.SendRequest) error {
	if d.err != nil {
		return d.err
	}
	d.requests = append(d.requests, req)
	return nil
}

func newTestHandlers() (*Handlers, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	h := &Handlers{
		Dispatcher:  dispatcher,
		Invalidator: &invalidation.Invalidator{Cache: cache.NewMemoryCache()},
		Reminders:   tasks.NewScheduler(nil),
		Logger:      zap.NewNop(),
	}
	return h, dispatcher
}

func sampleBooking() models.Booking {
	return models.Booking{
		ID:                 "bk-1",
		EventID:            "evt-1",
		ProviderID:         "prov-1",
		OrganizerAccountID: "acct-org",
		ProviderAccountID:  "acct-prov",
		Start:              time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
		End:                time.Date(2026, 9, 12, 22, 0, 0, 0, time.UTC),
		Status:             models.BookingStatusCancelled,
	}
}

func TestNotifyOnCancelledTargetsNonActingParty(t *testing.T) {
	h, dispatcher := newTestHandlers()
	booking := sampleBooking()
	event := models.Event{ID: "evt-1", Title: "Harbor Lights Festival"}

	// Organizer cancelled: the provider hears about it.
	err := h.notifyOnCancelled(context.Background(), &BookingCancelled{
		Header:  NewEventHeader("acct-org", booking.ID),
		Booking: booking,
		Event:   event,
		Reason:  "venue flooded",
	})
	require.NoError(t, err)
	require.Len(t, dispatcher.requests, 1)
	assert.Equal(t, "acct-prov", dispatcher.requests[0].RecipientAccountID)
	assert.Contains(t, dispatcher.requests[0].Message, "venue flooded")

	// Provider cancelled: the organizer hears about it.
	err = h.notifyOnCancelled(context.Background(), &BookingCancelled{
		Header:  NewEventHeader("acct-prov", booking.ID),
		Booking: booking,
		Event:   event,
	})
	require.NoError(t, err)
	require.Len(t, dispatcher.requests, 2)
	assert.Equal(t, "acct-org", dispatcher.requests[1].RecipientAccountID)
}

func TestNotifyOnCreatedTargetsProvider(t *testing.T) {
	h, dispatcher := newTestHandlers()
	booking := sampleBooking()
	booking.Status = models.BookingStatusPending

	err := h.notifyOnCreated(context.Background(), &BookingCreated{
		Header:  NewEventHeader("acct-org", booking.ID),
		Booking: booking,
		Event:   models.Event{ID: "evt-1", Title: "Harbor Lights Festival"},
	})
	require.NoError(t, err)
	require.Len(t, dispatcher.requests, 1)
	assert.Equal(t, "acct-prov", dispatcher.requests[0].RecipientAccountID)
	assert.Equal(t, "booking_request", dispatcher.requests[0].Type)
}

func TestBestEffortSwallowsHandlerErrors(t *testing.T) {
	handler := bestEffort("FailingHandler", zap.NewNop(), func(context.Context, *BookingCreated) error {
		return fmt.Errorf("downstream down")
	})

	err := handler.Handle(context.Background(), &BookingCreated{})
	assert.NoError(t, err, "side-effect failures must ack, not redeliver")
}

func TestAllHandlersAreRegistered(t *testing.T) {
	h, _ := newTestHandlers()
	handlers := h.All()
	require.Len(t, handlers, 10)

	names := make(map[string]bool, len(handlers))
	for _, handler := range handlers {
		names[handler.HandlerName()] = true
	}
	assert.True(t, names["NotifyOnBookingCreated"])
	assert.True(t, names["ScheduleReminderOnBookingConfirmed"])
	assert.True(t, names["InvalidateOnBookingStarted"])
}
