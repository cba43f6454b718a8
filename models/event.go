package models

import "time"

// Event is an occasion (wedding, conference, festival) created by an
// organizer. The booking coordinator reads it to resolve the organizer's
// identity; it owns zero or more bookings.
type Event struct {
	ID                 string    `bson:"id" json:"id"`
	OrganizerID        string    `bson:"organizer_id" json:"organizerId"`
	OrganizerAccountID string    `bson:"organizer_account_id" json:"organizerAccountId"`
	Title              string    `bson:"title" json:"title"`
	Venue              string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Start              time.Time `bson:"start" json:"start"`
	End                time.Time `bson:"end" json:"end"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updatedAt"`
}
