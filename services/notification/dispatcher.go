package notification

import (
	"context"
	"fmt"
	"time"

	accountRepo "gigbridge/database/repository/account"
	notificationRepo "gigbridge/database/repository/notification"
	"gigbridge/models"
	"gigbridge/services/mailer"
	"gigbridge/services/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDispatcher is the production Dispatcher.
type DefaultDispatcher struct {
	Accounts      accountRepo.AccountRepository
	Notifications notificationRepo.NotificationRepository
	Realtime      realtime.Channel
	Mailer        mailer.Sender
	Logger        *zap.Logger
}

// SendNotification persists the notification record, then attempts push and
// email. The record is the durable at-least-once delivery a recipient can
// read later even if offline; its persistence is the only step whose failure
// reaches the caller.
func (d *DefaultDispatcher) SendNotification(ctx context.Context, req SendRequest) error {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	record := &models.Notification{
		ID:        uuid.New().String(),
		AccountID: req.RecipientAccountID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Metadata,
		Priority:  priority,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := d.Notifications.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to persist notification for account %s: %w", req.RecipientAccountID, err)
	}

	pushPayload := map[string]string{
		"notificationId": record.ID,
		"type":           req.Type,
		"title":          req.Title,
		"body":           req.Message,
		"priority":       string(priority),
	}
	if err := d.Realtime.PublishToAccount(ctx, req.RecipientAccountID, req.Type, pushPayload); err != nil {
		d.Logger.Warn("push delivery failed",
			zap.String("accountId", req.RecipientAccountID),
			zap.String("type", req.Type),
			zap.Error(err))
	}

	if req.SendEmail {
		d.sendEmail(req)
	}
	return nil
}

func (d *DefaultDispatcher) sendEmail(req SendRequest) {
	account, err := d.Accounts.GetByID(req.RecipientAccountID)
	if err != nil || account == nil {
		d.Logger.Warn("email skipped, could not resolve recipient",
			zap.String("accountId", req.RecipientAccountID),
			zap.Error(err))
		return
	}
	if err := d.Mailer.Send(account.Email, req.Title, req.Message); err != nil {
		d.Logger.Warn("email delivery failed",
			zap.String("accountId", req.RecipientAccountID),
			zap.String("email", account.Email),
			zap.Error(err))
	}
}
