package booking

import (
	"context"
	"time"

	"gigbridge/cache"
	accountRepo "gigbridge/database/repository/account"
	bookingRepo "gigbridge/database/repository/booking"
	eventRepo "gigbridge/database/repository/event"
	providerRepo "gigbridge/database/repository/provider"
	"gigbridge/services/eventbus"

	"go.uber.org/zap"
)

// publishTimeout bounds the background publish of a booking event.
const publishTimeout = 5 * time.Second

// DefaultBookingService is the production booking coordinator. Persistence
// and side effects run in two phases: the repository commits first, then
// events fan out best-effort. A notification or cache failure can never leave
// a booking half-written, and a committed booking write is never reported as
// failed because a downstream consumer was unavailable.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Events    eventRepo.EventRepository
	Providers providerRepo.ProviderRepository
	Accounts  accountRepo.AccountRepository
	Checker   *ConflictChecker
	Bus       eventbus.Publisher
	Cache     cache.Cache
	Logger    *zap.Logger
}

// publishAsync publishes an event without blocking the caller's response.
// Publish failure is logged, never raised: the booking already committed.
func (s *DefaultBookingService) publishAsync(event any, bookingID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.Bus.Publish(ctx, event); err != nil {
			s.Logger.Error("failed to publish booking event",
				zap.String("bookingId", bookingID),
				zap.Error(err))
		}
	}()
}
