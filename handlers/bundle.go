package handlers

import (
	accountRepo "gigbridge/database/repository/account"
)

// HandlerBundle groups the endpoint handlers and the repositories the route
// middleware needs.
type HandlerBundle struct {
	AccountRepo accountRepo.AccountRepository

	Booking      *BookingHandler
	Notification *NotificationHandler
}
