package booking

import (
	"errors"
	"fmt"

	"gigbridge/models"
)

// NotFoundError signals a referenced event, provider, or booking is absent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnauthorizedError signals the actor is not a party to the booking or not
// the event's organizer.
type UnauthorizedError struct {
	AccountID string
	Reason    string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("account %s is not authorized: %s", e.AccountID, e.Reason)
}

// ConflictError signals a duplicate active booking or an overlapping
// committed interval for the provider.
type ConflictError struct {
	ProviderID string
	Reason     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict for provider %s: %s", e.ProviderID, e.Reason)
}

// InvalidTransitionError signals a status change not permitted for the
// actor/current-state pair.
type InvalidTransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
	Role models.ActorRole
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not permitted for %s", e.From, e.To, e.Role)
}

// PersistenceError wraps a failed store transaction. It is surfaced, never
// silently swallowed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
