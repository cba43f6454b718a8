package models

import "time"

// Account is a user record. Organizer and provider profiles both hang off an
// account; the account carries the identity used for authorization and the
// delivery targets for email and push.
type Account struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Role      ActorRole `bson:"role" json:"role"`
	Active    bool      `bson:"active" json:"active"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
