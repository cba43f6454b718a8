package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "gigbridge/database/repository/booking"
	"gigbridge/models"
	"gigbridge/services/eventbus"

	"github.com/google/uuid"
)

// CreateBooking opens a booking request in PENDING. The duplicate-pair and
// committed-overlap checks run twice: once here for a precise error before
// any write, and again inside the repository transaction so two concurrent
// requests for the same provider and window cannot both commit.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if !input.StartDate.Before(input.EndDate) {
		return nil, fmt.Errorf("booking start must be strictly before end")
	}
	if input.Rate < 0 {
		return nil, fmt.Errorf("rate must be non-negative")
	}

	event, err := s.Events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve event", Err: err}
	}
	if event == nil {
		return nil, &NotFoundError{Resource: "event", ID: input.EventID}
	}
	if event.OrganizerAccountID != input.OrganizerAccountID {
		return nil, &UnauthorizedError{
			AccountID: input.OrganizerAccountID,
			Reason:    fmt.Sprintf("not the organizer of event %s", input.EventID),
		}
	}

	provider, err := s.Providers.GetByID(ctx, input.ProviderID)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve provider", Err: err}
	}
	if provider == nil {
		return nil, &NotFoundError{Resource: "provider", ID: input.ProviderID}
	}
	account, err := s.Accounts.GetByID(provider.AccountID)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve provider account", Err: err}
	}
	if account == nil || !account.Active {
		return nil, &NotFoundError{Resource: "provider", ID: input.ProviderID}
	}

	pairCount, err := s.Bookings.CountActiveForEventProvider(ctx, input.EventID, input.ProviderID)
	if err != nil {
		return nil, &PersistenceError{Op: "duplicate pair check", Err: err}
	}
	if pairCount > 0 {
		return nil, &ConflictError{
			ProviderID: input.ProviderID,
			Reason:     fmt.Sprintf("an active booking already exists for event %s", input.EventID),
		}
	}

	overlap, err := s.Checker.HasOverlap(ctx, input.ProviderID, input.StartDate, input.EndDate, "")
	if err != nil {
		return nil, &PersistenceError{Op: "overlap check", Err: err}
	}
	if overlap {
		return nil, &ConflictError{
			ProviderID: input.ProviderID,
			Reason:     "requested interval overlaps a committed booking",
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	booking := &models.Booking{
		ID:                 uuid.New().String(),
		EventID:            event.ID,
		ProviderID:         provider.ID,
		OrganizerID:        event.OrganizerID,
		OrganizerAccountID: event.OrganizerAccountID,
		ProviderAccountID:  provider.AccountID,
		Start:              input.StartDate,
		End:                input.EndDate,
		Rate:               input.Rate,
		Currency:           currency,
		Description:        input.Description,
		Requirements:       input.Requirements,
		Status:             models.BookingStatusPending,
		Notes:              input.Notes,
	}

	if err := s.Bookings.CreateWithConflictCheck(ctx, booking); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrActivePairExists):
			return nil, &ConflictError{
				ProviderID: input.ProviderID,
				Reason:     fmt.Sprintf("an active booking already exists for event %s", input.EventID),
			}
		case errors.Is(err, bookingRepo.ErrCommittedOverlap):
			return nil, &ConflictError{
				ProviderID: input.ProviderID,
				Reason:     "requested interval overlaps a committed booking",
			}
		default:
			return nil, &PersistenceError{Op: "create booking", Err: err}
		}
	}

	s.publishAsync(eventbus.BookingCreated{
		Header:   eventbus.NewEventHeader(input.OrganizerAccountID, booking.ID),
		Booking:  *booking,
		Event:    *event,
		Provider: *provider,
	}, booking.ID)

	return booking, nil
}
