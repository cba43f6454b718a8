package providerRepo

import (
	"context"

	"gigbridge/models"
)

// ProviderRepository defines methods for provider profile data access.
type ProviderRepository interface {
	// GetByID retrieves a provider profile by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetByAccountID retrieves the provider profile owned by an account.
	GetByAccountID(ctx context.Context, accountID string) (*models.Provider, error)
	// Create inserts a new provider profile.
	Create(ctx context.Context, provider *models.Provider) error
	// Update modifies an existing provider profile.
	Update(ctx context.Context, provider *models.Provider) error
}
