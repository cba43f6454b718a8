package eventRepo

import (
	"context"

	"gigbridge/models"
)

// EventRepository defines methods for event data access. The booking
// coordinator only reads events; mutation belongs to the organizer CRUD
// surface outside this core.
type EventRepository interface {
	// GetByID retrieves an event by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Event, error)
	// ListByOrganizerAccount retrieves events created by an organizer account.
	ListByOrganizerAccount(ctx context.Context, accountID string) ([]models.Event, error)
	// Create inserts a new event record.
	Create(ctx context.Context, event *models.Event) error
}
