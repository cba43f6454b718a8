package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"gigbridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var committedStatuses = []models.BookingStatus{
	models.BookingStatusConfirmed,
	models.BookingStatusInProgress,
}

var activeStatuses = []models.BookingStatus{
	models.BookingStatusPending,
	models.BookingStatusConfirmed,
	models.BookingStatusInProgress,
}

// calendarLockFilter addresses the provider's calendar document. There is
// exactly one per provider, keyed by provider_id alone, so every
// conflict-checked write path lands on the same document.
func calendarLockFilter(providerID string) bson.M {
	return bson.M{"provider_id": providerID}
}

// calendarLockUpdate bumps the calendar version. The content is irrelevant;
// the write itself is what forces concurrent transactions to collide.
func calendarLockUpdate() bson.M {
	return bson.M{
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"touched_at": time.Now()},
	}
}

// overlapFilter builds the half-open interval intersection filter:
// existing.start < end AND existing.end > start. Back-to-back bookings
// (existing.end == start) do not match.
func overlapFilter(providerID string, start, end time.Time, excludeID string) bson.M {
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": committedStatuses},
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

func (r *MongoBookingRepo) GetCommittedForProvider(ctx context.Context, providerID, excludeID string) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": committedStatuses},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching committed bookings for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) CountActiveForEventProvider(ctx context.Context, eventID, providerID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"event_id":    eventID,
		"provider_id": providerID,
		"status":      bson.M{"$in": activeStatuses},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting active bookings for event %s provider %s: %w", eventID, providerID, err)
	}
	return count, nil
}

func (r *MongoBookingRepo) HasCommittedOverlap(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, overlapFilter(providerID, start, end, excludeID))
	if err != nil {
		return false, fmt.Errorf("error checking overlap for provider %s: %w", providerID, err)
	}
	return count > 0, nil
}

func (r *MongoBookingRepo) ListForAccount(ctx context.Context, accountID string, role models.ActorRole, q models.BookingListQuery) ([]models.Booking, int64, error) {
	field := "organizer_account_id"
	if role == models.RoleProvider {
		field = "provider_account_id"
	}
	filter := bson.M{field: accountID}
	if q.Status != nil {
		filter["status"] = *q.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting bookings for account %s: %w", accountID, err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing bookings for account %s: %w", accountID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, total, nil
}
