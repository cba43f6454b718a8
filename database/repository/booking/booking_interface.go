package bookingRepo

import (
	"context"
	"errors"
	"time"

	"gigbridge/models"
)

// Sentinel errors surfaced by the transactional write paths. The booking
// service maps them onto its own error taxonomy.
var (
	// ErrActivePairExists signals an active booking already exists for the
	// same (event, provider) pair.
	ErrActivePairExists = errors.New("active booking already exists for event and provider")
	// ErrCommittedOverlap signals the provider holds a committed booking
	// overlapping the requested interval.
	ErrCommittedOverlap = errors.New("provider has an overlapping committed booking")
	// ErrNotFound signals the booking does not exist.
	ErrNotFound = errors.New("booking not found")
)

// BookingRepository defines methods for booking data access. The two write
// paths are transactional: the overlap check and the write commit together or
// not at all, so two concurrent calls for the same provider and window cannot
// both succeed.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetCommittedForProvider retrieves CONFIRMED/IN_PROGRESS bookings for a
	// provider, optionally excluding one booking ID.
	GetCommittedForProvider(ctx context.Context, providerID, excludeID string) ([]models.Booking, error)
	// CountActiveForEventProvider counts PENDING/CONFIRMED/IN_PROGRESS
	// bookings for the (event, provider) pair.
	CountActiveForEventProvider(ctx context.Context, eventID, providerID string) (int64, error)
	// HasCommittedOverlap reports whether a committed booking for the provider
	// intersects [start, end), half-open.
	HasCommittedOverlap(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error)
	// ListForAccount retrieves one page of bookings where the account acts in
	// the given role, newest first.
	ListForAccount(ctx context.Context, accountID string, role models.ActorRole, q models.BookingListQuery) ([]models.Booking, int64, error)
	// CreateWithConflictCheck inserts the booking after re-running the
	// duplicate-pair and committed-overlap checks inside one transaction.
	CreateWithConflictCheck(ctx context.Context, booking *models.Booking) error
	// UpdateStatusTx applies the status patch atomically. When checkOverlap is
	// set the committed-overlap check is re-evaluated (excluding the booking
	// itself) inside the same transaction before the write.
	UpdateStatusTx(ctx context.Context, id string, patch models.BookingStatusPatch, checkOverlap bool) (*models.Booking, error)
}
