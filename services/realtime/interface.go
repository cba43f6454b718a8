package realtime

import "context"

// Channel pushes a real-time event to an account's session. Delivery is
// fire-and-forget from the caller's perspective: an error is something to
// log, never to propagate into booking state.
type Channel interface {
	PublishToAccount(ctx context.Context, accountID, eventName string, payload map[string]string) error
}

// NoopChannel is used when no push transport is configured.
type NoopChannel struct{}

func (NoopChannel) PublishToAccount(context.Context, string, string, map[string]string) error {
	return nil
}
