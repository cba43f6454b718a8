package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"gigbridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// withTransaction runs fn inside a Mongo session transaction. The driver
// retries fn on transient errors, which includes the write conflicts raised
// by two transactions bumping the same provider calendar document; the loser
// re-runs against the winner's committed state and its conflict checks then
// see the winner's bookings.
func (r *MongoBookingRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// lockProviderCalendar bumps the provider's calendar document inside the
// transaction. Snapshot isolation alone cannot order two transactions that
// confirm different bookings for the same provider: each reads zero committed
// overlaps in its own snapshot and writes a distinct booking document, so
// neither aborts. Writing this shared document first gives every
// conflict-checked path for one provider an intersecting write set, so Mongo
// aborts one of the two and its retry observes the other's commit.
func (r *MongoBookingRepo) lockProviderCalendar(sc mongo.SessionContext, providerID string) error {
	err := r.locks.FindOneAndUpdate(sc,
		calendarLockFilter(providerID),
		calendarLockUpdate(),
		options.FindOneAndUpdate().SetUpsert(true),
	).Err()
	// ErrNoDocuments just means the upsert created the document.
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("could not reserve calendar for provider %s: %w", providerID, err)
	}
	return nil
}

// CreateWithConflictCheck re-runs both conflict checks and inserts the booking
// in one transaction, serialized per provider through the calendar document.
// No in-process lock is involved, because multiple service instances may run.
func (r *MongoBookingRepo) CreateWithConflictCheck(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.lockProviderCalendar(sc, booking.ProviderID); err != nil {
			return err
		}

		pairCount, err := r.coll.CountDocuments(sc, bson.M{
			"event_id":    booking.EventID,
			"provider_id": booking.ProviderID,
			"status":      bson.M{"$in": activeStatuses},
		})
		if err != nil {
			return fmt.Errorf("duplicate pair check failed: %w", err)
		}
		if pairCount > 0 {
			return ErrActivePairExists
		}

		overlapCount, err := r.coll.CountDocuments(sc, overlapFilter(booking.ProviderID, booking.Start, booking.End, ""))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if overlapCount > 0 {
			return ErrCommittedOverlap
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdateStatusTx loads the booking, optionally re-checks committed overlap
// against its interval, and applies the patch, all in one transaction. The
// overlap-checked path serializes through the provider calendar, so two
// confirmations of overlapping windows cannot both commit.
// Timestamps from earlier transitions are preserved: the patch only sets the
// field implied by the new status.
func (r *MongoBookingRepo) UpdateStatusTx(ctx context.Context, id string, patch models.BookingStatusPatch, checkOverlap bool) (*models.Booking, error) {
	var updated models.Booking

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var current models.Booking
		if err := r.coll.FindOne(sc, bson.M{"id": id}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("error fetching booking with id %s: %w", id, err)
		}

		if checkOverlap {
			if err := r.lockProviderCalendar(sc, current.ProviderID); err != nil {
				return err
			}
			count, err := r.coll.CountDocuments(sc, overlapFilter(current.ProviderID, current.Start, current.End, current.ID))
			if err != nil {
				return fmt.Errorf("overlap check failed: %w", err)
			}
			if count > 0 {
				return ErrCommittedOverlap
			}
		}

		set := bson.M{
			"status":     patch.Status,
			"updated_at": time.Now(),
		}
		if patch.Notes != nil {
			set["notes"] = *patch.Notes
		}
		if patch.CancellationReason != nil {
			set["cancellation_reason"] = *patch.CancellationReason
		}
		if patch.ConfirmedAt != nil {
			set["confirmed_at"] = *patch.ConfirmedAt
		}
		if patch.CompletedAt != nil {
			set["completed_at"] = *patch.CompletedAt
		}
		if patch.CancelledAt != nil {
			set["cancelled_at"] = *patch.CancelledAt
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := r.coll.FindOneAndUpdate(sc, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
			return fmt.Errorf("status update failed for booking %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
