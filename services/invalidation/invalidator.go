package invalidation

import (
	"context"
	"fmt"

	"gigbridge/cache"
)

// Invalidator removes stale cached views after a booking state change. It is
// eventually consistent: a reader may observe a stale cached list for at most
// one TTL window, which is an accepted trade-off.
type Invalidator struct {
	Cache cache.Cache
}

// InvalidateBooking drops the cached booking and event views and pattern-
// deletes both participants' cached list pages.
func (inv *Invalidator) InvalidateBooking(ctx context.Context, bookingID, eventID, organizerAccountID, providerAccountID string) error {
	keys := []string{
		BookingKey(bookingID),
		EventKey(eventID),
		ProfileKey(organizerAccountID),
		ProfileKey(providerAccountID),
	}
	if err := inv.Cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete booking cache keys: %w", err)
	}

	for _, accountID := range []string{organizerAccountID, providerAccountID} {
		if accountID == "" {
			continue
		}
		if err := inv.Cache.DeleteByPattern(ctx, BookingListPrefix(accountID)); err != nil {
			return fmt.Errorf("failed to delete list cache for account %s: %w", accountID, err)
		}
	}
	return nil
}
