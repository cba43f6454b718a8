package models

import "time"

// Provider is a creative service provider profile (photographer, band, caterer
// and so on) offered on the marketplace. It references the owning account,
// which must be active for the provider to be bookable.
type Provider struct {
	ID          string    `bson:"id" json:"id"`
	AccountID   string    `bson:"account_id" json:"accountId"`
	DisplayName string    `bson:"display_name" json:"displayName"`
	Category    string    `bson:"category" json:"category"` // e.g. "photography", "live-music", "catering"
	Bio         string    `bson:"bio,omitempty" json:"bio,omitempty"`
	HourlyRate  float64   `bson:"hourly_rate,omitempty" json:"hourlyRate,omitempty"`
	Currency    string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Rating      float64   `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
