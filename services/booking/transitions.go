package booking

import "gigbridge/models"

// transitionTable encodes who may move a booking where. Authority is
// asymmetric: only the provider accepts a pending request, only the organizer
// starts the engagement, and a provider mid-engagement can complete but not
// cancel. Terminal states have no entries.
var transitionTable = map[models.BookingStatus]map[models.ActorRole][]models.BookingStatus{
	models.BookingStatusPending: {
		models.RoleOrganizer: {models.BookingStatusCancelled},
		models.RoleProvider:  {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	},
	models.BookingStatusConfirmed: {
		models.RoleOrganizer: {models.BookingStatusInProgress, models.BookingStatusCancelled},
		models.RoleProvider:  {models.BookingStatusInProgress, models.BookingStatusCancelled},
	},
	models.BookingStatusInProgress: {
		models.RoleOrganizer: {models.BookingStatusCompleted, models.BookingStatusCancelled},
		models.RoleProvider:  {models.BookingStatusCompleted},
	},
}

// CanTransition reports whether the actor role may move a booking from one
// status to another. Anything not present in the table is rejected.
func CanTransition(from models.BookingStatus, role models.ActorRole, to models.BookingStatus) bool {
	allowed, ok := transitionTable[from]
	if !ok {
		return false
	}
	for _, status := range allowed[role] {
		if status == to {
			return true
		}
	}
	return false
}
