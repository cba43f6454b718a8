package booking

import (
	"context"
	"time"

	"gigbridge/models"
)

// CreateBookingInput carries everything needed to open a booking request.
// The organizer account is the initiating actor; authority over the event is
// verified by the service.
type CreateBookingInput struct {
	EventID            string
	ProviderID         string
	OrganizerAccountID string
	StartDate          time.Time
	EndDate            time.Time
	Rate               float64
	Currency           string
	Description        string
	Requirements       []string
	Notes              string
}

// UpdateStatusRequest carries a requested status transition.
type UpdateStatusRequest struct {
	Status             models.BookingStatus
	Notes              *string
	CancellationReason *string
}

// BookingService coordinates the booking lifecycle: creation, the role-gated
// status state machine, and fan-out of side effects after each commit.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, actorAccountID string, req UpdateStatusRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookingsForAccount(ctx context.Context, accountID string, role models.ActorRole, q models.BookingListQuery) (*models.PagedBookings, error)
}
