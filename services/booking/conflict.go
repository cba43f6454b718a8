package booking

import (
	"context"
	"time"

	bookingRepo "gigbridge/database/repository/booking"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A booking ending exactly when another starts does
// not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ConflictChecker determines whether a provider already holds a committed
// (CONFIRMED or IN_PROGRESS) booking intersecting a requested interval.
// PENDING bookings never block scheduling: an unconfirmed hold should not
// prevent a provider from accepting a different request.
type ConflictChecker struct {
	Repo bookingRepo.BookingRepository
}

// HasOverlap checks the provider's committed bookings against [start, end),
// optionally excluding one booking (used when confirming an existing one).
func (c *ConflictChecker) HasOverlap(ctx context.Context, providerID string, start, end time.Time, excludeBookingID string) (bool, error) {
	committed, err := c.Repo.GetCommittedForProvider(ctx, providerID, excludeBookingID)
	if err != nil {
		return false, err
	}
	for _, b := range committed {
		if Overlaps(b.Start, b.End, start, end) {
			return true, nil
		}
	}
	return false, nil
}
