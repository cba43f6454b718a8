package models

import "time"

// NotificationPriority ranks how prominently a notification is surfaced.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is the durable, at-least-once delivered record a user can read
// later even if offline. The coordinator never mutates it; only the recipient
// marks it read.
type Notification struct {
	ID        string               `bson:"id" json:"id"`
	AccountID string               `bson:"account_id" json:"accountId"`
	Type      string               `bson:"type" json:"type"`
	Title     string               `bson:"title" json:"title"`
	Message   string               `bson:"message" json:"message"`
	Data      map[string]any       `bson:"data,omitempty" json:"data,omitempty"`
	Priority  NotificationPriority `bson:"priority" json:"priority"`
	Read      bool                 `bson:"read" json:"read"`
	CreatedAt time.Time            `bson:"created_at" json:"createdAt"`
}
