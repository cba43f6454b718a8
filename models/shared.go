package models

// ActorRole identifies which side of a booking an account is acting as.
type ActorRole string

const (
	RoleOrganizer ActorRole = "organizer"
	RoleProvider  ActorRole = "provider"
)

// ActorContext is resolved once at the top of each operation and passed
// explicitly, instead of re-deriving the caller's role from request state.
type ActorContext struct {
	AccountID string    `json:"accountId"`
	Role      ActorRole `json:"role"`
}

// BookingListQuery holds paging and filtering options for booking listings.
type BookingListQuery struct {
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Status *BookingStatus `json:"status,omitempty"`
}

// PagedBookings is one page of a role-scoped booking listing.
type PagedBookings struct {
	Items []Booking `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
