package realtime

import (
	"context"
	"fmt"

	accountRepo "gigbridge/database/repository/account"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMChannel implements Channel over Firebase Cloud Messaging. The recipient
// account's stored FCM token is the session address.
type FCMChannel struct {
	client   *messaging.Client
	accounts accountRepo.AccountRepository
}

// NewFCMChannel initializes the Firebase app and messaging client from a
// service account credentials file.
func NewFCMChannel(ctx context.Context, credentialsPath string, accounts accountRepo.AccountRepository) (*FCMChannel, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return &FCMChannel{client: client, accounts: accounts}, nil
}

func (c *FCMChannel) PublishToAccount(ctx context.Context, accountID, eventName string, payload map[string]string) error {
	account, err := c.accounts.GetByID(accountID)
	if err != nil {
		return fmt.Errorf("could not resolve account %s: %w", accountID, err)
	}
	if account == nil || account.FCMToken == "" {
		// No registered session to push to.
		return nil
	}

	data := make(map[string]string, len(payload)+1)
	for k, v := range payload {
		data[k] = v
	}
	data["event"] = eventName

	msg := &messaging.Message{
		Token: account.FCMToken,
		Data:  data,
	}
	if _, err := c.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message to account %s: %w", accountID, err)
	}
	return nil
}
