package notification

import (
	"context"

	"gigbridge/models"
)

// SendRequest bundles the arguments of one notification dispatch.
type SendRequest struct {
	RecipientAccountID string
	Type               string
	Title              string
	Message            string
	Metadata           map[string]any
	Priority           models.NotificationPriority
	SendEmail          bool
}

// Dispatcher delivers an in-app notification record, an optional push, and an
// optional email. Only the persistence of the record can fail the dispatch;
// push and email are best-effort.
type Dispatcher interface {
	SendNotification(ctx context.Context, req SendRequest) error
}
