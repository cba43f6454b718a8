package eventbus

import (
	"time"

	"gigbridge/models"

	"github.com/google/uuid"
)

// EventHeader is the envelope attached to every bus message: who acted, what
// entity was affected, and a source tag for traceability. Messages are
// ephemeral; they are delivered in-process and never persisted.
type EventHeader struct {
	ID             string    `json:"id"`
	OccurredAt     time.Time `json:"occurredAt"`
	ActorAccountID string    `json:"actorAccountId,omitempty"`
	EntityID       string    `json:"entityId"`
	EntityType     string    `json:"entityType"`
	Source         string    `json:"source"`
}

// NewEventHeader stamps an envelope for a booking entity.
func NewEventHeader(actorAccountID, entityID string) EventHeader {
	return EventHeader{
		ID:             uuid.New().String(),
		OccurredAt:     time.Now(),
		ActorAccountID: actorAccountID,
		EntityID:       entityID,
		EntityType:     "booking",
		Source:         "booking-coordinator",
	}
}

// BookingCreated is published after a booking request commits in PENDING.
type BookingCreated struct {
	Header   EventHeader     `json:"header"`
	Booking  models.Booking  `json:"booking"`
	Event    models.Event    `json:"event"`
	Provider models.Provider `json:"provider"`
}

// BookingConfirmed is published after a provider accepts a booking.
type BookingConfirmed struct {
	Header   EventHeader     `json:"header"`
	Booking  models.Booking  `json:"booking"`
	Event    models.Event    `json:"event"`
	Provider models.Provider `json:"provider"`
}

// BookingStarted is published when a booking moves to IN_PROGRESS. Only the
// cache invalidator consumes it today.
type BookingStarted struct {
	Header  EventHeader    `json:"header"`
	Booking models.Booking `json:"booking"`
}

// BookingCancelled is published after either party cancels.
type BookingCancelled struct {
	Header   EventHeader     `json:"header"`
	Booking  models.Booking  `json:"booking"`
	Event    models.Event    `json:"event"`
	Provider models.Provider `json:"provider"`
	Reason   string          `json:"reason,omitempty"`
}

// BookingCompleted is published after an engagement finishes.
type BookingCompleted struct {
	Header   EventHeader     `json:"header"`
	Booking  models.Booking  `json:"booking"`
	Event    models.Event    `json:"event"`
	Provider models.Provider `json:"provider"`
}
