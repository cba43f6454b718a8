package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gigbridge/cache"
	bookingRepo "gigbridge/database/repository/booking"
	"gigbridge/models"
	"gigbridge/services/invalidation"

	"go.uber.org/zap"
)

// listCacheTTL bounds how stale a cached listing page may get after a missed
// invalidation.
const listCacheTTL = time.Minute

// GetBooking retrieves a single booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, &PersistenceError{Op: "load booking", Err: err}
	}
	return b, nil
}

// GetBookingsForAccount returns one page of the account's bookings in the
// given role, read through the cache. Cache failures fall back to the store.
func (s *DefaultBookingService) GetBookingsForAccount(ctx context.Context, accountID string, role models.ActorRole, q models.BookingListQuery) (*models.PagedBookings, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	status := ""
	if q.Status != nil {
		status = string(*q.Status)
	}
	key := invalidation.BookingListKey(accountID, string(role), page, limit, status)

	if cached, err := s.Cache.Get(ctx, key); err == nil {
		var result models.PagedBookings
		if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
			return &result, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.Logger.Warn("booking list cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, total, err := s.Bookings.ListForAccount(ctx, accountID, role, models.BookingListQuery{
		Page: page, Limit: limit, Status: q.Status,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	if items == nil {
		items = []models.Booking{}
	}

	result := &models.PagedBookings{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}

	if data, jsonErr := json.Marshal(result); jsonErr == nil {
		if err := s.Cache.Set(ctx, key, string(data), listCacheTTL); err != nil {
			s.Logger.Warn("booking list cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}
