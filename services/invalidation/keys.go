package invalidation

import "fmt"

// Cache key layout. Listing keys are namespaced per account so that a single
// pattern delete clears every cached page for a participant.

// BookingKey caches one booking document.
func BookingKey(bookingID string) string {
	return "booking:" + bookingID
}

// EventKey caches an event view.
func EventKey(eventID string) string {
	return "event:" + eventID
}

// ProfileKey caches an account's profile view.
func ProfileKey(accountID string) string {
	return "profile:" + accountID
}

// BookingListPrefix is the namespace for all cached booking-list pages of an
// account.
func BookingListPrefix(accountID string) string {
	return fmt.Sprintf("bookings:acct:%s:", accountID)
}

// BookingListKey caches one page of a role-scoped booking listing.
func BookingListKey(accountID, role string, page, limit int, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s%s:p%d:l%d:%s", BookingListPrefix(accountID), role, page, limit, status)
}
