package notificationRepo

import (
	"context"

	"gigbridge/models"
)

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, n *models.Notification) error
	// ListForAccount retrieves notifications for an account, newest first.
	ListForAccount(ctx context.Context, accountID string, limit int) ([]models.Notification, error)
	// MarkRead flags a notification as read by its recipient.
	MarkRead(ctx context.Context, id, accountID string) error
}
