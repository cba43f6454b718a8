package bookingRepo

import (
	"testing"
	"time"

	"gigbridge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCalendarLockSharesOneDocumentPerProvider(t *testing.T) {
	// Concurrent transactions only abort each other when their write sets
	// intersect. Every conflict-checked write path must therefore address the
	// provider's calendar by provider_id alone, nothing request-specific.
	filter := calendarLockFilter("prov-1")
	assert.Equal(t, bson.M{"provider_id": "prov-1"}, filter)
	assert.Equal(t, filter, calendarLockFilter("prov-1"))
	assert.NotEqual(t, filter, calendarLockFilter("prov-2"))
}

func TestCalendarLockUpdateWrites(t *testing.T) {
	update := calendarLockUpdate()

	inc, ok := update["$inc"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 1, inc["version"])

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	_, ok = set["touched_at"].(time.Time)
	assert.True(t, ok)
}

func TestOverlapFilterHalfOpenInterval(t *testing.T) {
	start := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)

	filter := overlapFilter("prov-1", start, end, "")

	assert.Equal(t, "prov-1", filter["provider_id"])
	// existing.start < end, existing.end > start: a booking ending exactly at
	// start (or starting exactly at end) does not match.
	assert.Equal(t, bson.M{"$lt": end}, filter["start"])
	assert.Equal(t, bson.M{"$gt": start}, filter["end"])
	assert.Equal(t, bson.M{"$in": committedStatuses}, filter["status"])
	_, hasExclude := filter["id"]
	assert.False(t, hasExclude)

	withExclude := overlapFilter("prov-1", start, end, "bk-1")
	assert.Equal(t, bson.M{"$ne": "bk-1"}, withExclude["id"])
}

func TestStatusFiltersMatchLifecycleSemantics(t *testing.T) {
	assert.ElementsMatch(t, []models.BookingStatus{
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
	}, committedStatuses)

	assert.ElementsMatch(t, []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
	}, activeStatuses)
}
