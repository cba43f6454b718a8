package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "gigbridge/database/repository/booking"
	"gigbridge/models"
	"gigbridge/services/eventbus"
)

// UpdateBookingStatus drives the role-gated state machine. The actor's role
// is resolved once from the booking's own parties, the transition is checked
// against the table, and the patch commits atomically before any event is
// published.
func (s *DefaultBookingService) UpdateBookingStatus(ctx context.Context, bookingID, actorAccountID string, req UpdateStatusRequest) (*models.Booking, error) {
	current, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, &PersistenceError{Op: "load booking", Err: err}
	}

	var role models.ActorRole
	switch actorAccountID {
	case current.OrganizerAccountID:
		role = models.RoleOrganizer
	case current.ProviderAccountID:
		role = models.RoleProvider
	default:
		return nil, &UnauthorizedError{
			AccountID: actorAccountID,
			Reason:    fmt.Sprintf("not a party to booking %s", bookingID),
		}
	}

	if !CanTransition(current.Status, role, req.Status) {
		return nil, &InvalidTransitionError{From: current.Status, To: req.Status, Role: role}
	}

	now := time.Now()
	patch := models.BookingStatusPatch{
		Status: req.Status,
		Notes:  req.Notes,
	}
	switch req.Status {
	case models.BookingStatusConfirmed:
		patch.ConfirmedAt = &now
	case models.BookingStatusCompleted:
		patch.CompletedAt = &now
	case models.BookingStatusCancelled:
		patch.CancelledAt = &now
		patch.CancellationReason = req.CancellationReason
	}

	// Confirming commits the interval, so the overlap check is re-evaluated
	// inside the same transaction, excluding the booking itself.
	checkOverlap := req.Status == models.BookingStatusConfirmed

	updated, err := s.Bookings.UpdateStatusTx(ctx, bookingID, patch, checkOverlap)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrCommittedOverlap):
			return nil, &ConflictError{
				ProviderID: current.ProviderID,
				Reason:     "booking interval now overlaps a committed booking",
			}
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		default:
			return nil, &PersistenceError{Op: "update booking status", Err: err}
		}
	}

	s.publishStatusEvent(ctx, actorAccountID, updated)
	return updated, nil
}

// publishStatusEvent emits the status-specific event with the booking's full
// context. Context lookups are best-effort reads after commit; if they fail
// the event is published with what is known.
func (s *DefaultBookingService) publishStatusEvent(ctx context.Context, actorAccountID string, b *models.Booking) {
	header := eventbus.NewEventHeader(actorAccountID, b.ID)

	var event models.Event
	if ev, err := s.Events.GetByID(ctx, b.EventID); err == nil && ev != nil {
		event = *ev
	}
	var provider models.Provider
	if p, err := s.Providers.GetByID(ctx, b.ProviderID); err == nil && p != nil {
		provider = *p
	}

	switch b.Status {
	case models.BookingStatusConfirmed:
		s.publishAsync(eventbus.BookingConfirmed{
			Header: header, Booking: *b, Event: event, Provider: provider,
		}, b.ID)
	case models.BookingStatusInProgress:
		s.publishAsync(eventbus.BookingStarted{Header: header, Booking: *b}, b.ID)
	case models.BookingStatusCancelled:
		reason := ""
		if b.CancellationReason != nil {
			reason = *b.CancellationReason
		}
		s.publishAsync(eventbus.BookingCancelled{
			Header: header, Booking: *b, Event: event, Provider: provider, Reason: reason,
		}, b.ID)
	case models.BookingStatusCompleted:
		s.publishAsync(eventbus.BookingCompleted{
			Header: header, Booking: *b, Event: event, Provider: provider,
		}, b.ID)
	}
}
