package accountRepo

import "gigbridge/models"

// AccountRepository defines methods for account data access.
type AccountRepository interface {
	// GetByID retrieves an account by its unique ID.
	GetByID(id string) (*models.Account, error)
	// GetByEmail retrieves an account by its email address.
	GetByEmail(email string) (*models.Account, error)
	// Create inserts a new account record.
	Create(account *models.Account) error
	// Update modifies an existing account record.
	Update(account *models.Account) error
}
