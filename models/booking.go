package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsCommitted reports whether the status blocks scheduling conflicts.
// Only CONFIRMED and IN_PROGRESS bookings occupy the provider's calendar;
// a PENDING hold never prevents the provider from accepting another request.
func (s BookingStatus) IsCommitted() bool {
	return s == BookingStatusConfirmed || s == BookingStatusInProgress
}

// IsActive reports whether the booking still counts against the
// one-active-booking-per-(event, provider) rule.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s.IsCommitted()
}

// Booking represents one provider committed to one event for a time range.
// The time range is half-open: [Start, End), so a booking ending at noon
// never collides with one starting at noon.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`
	EventID            string         `bson:"event_id" json:"eventId"`
	ProviderID         string         `bson:"provider_id" json:"providerId"`
	OrganizerID        string         `bson:"organizer_id" json:"organizerId"`
	OrganizerAccountID string         `bson:"organizer_account_id" json:"organizerAccountId"`
	ProviderAccountID  string         `bson:"provider_account_id" json:"providerAccountId"`
	Start              time.Time      `bson:"start" json:"start"`
	End                time.Time      `bson:"end" json:"end"`
	Rate               float64        `bson:"rate" json:"rate"`
	Currency           string         `bson:"currency" json:"currency"`
	Description        string         `bson:"description,omitempty" json:"description,omitempty"`
	Requirements       []string       `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Status             BookingStatus  `bson:"status" json:"status"`
	Notes              string         `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationReason *string        `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	ConfirmedAt        *time.Time     `bson:"confirmed_at,omitempty" json:"confirmedAt,omitempty"`
	CompletedAt        *time.Time     `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CancelledAt        *time.Time     `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt          time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `bson:"updated_at" json:"updatedAt"`
}

// BookingStatusPatch captures the fields an atomic status update may touch.
// Exactly one timestamp pointer is set per transition; timestamps written by
// earlier transitions are never cleared.
type BookingStatusPatch struct {
	Status             BookingStatus
	Notes              *string
	CancellationReason *string
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}
