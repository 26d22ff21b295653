package providerRepo

import (
	"context"
	"time"

	"hirewise/models"
)

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetAll retrieves all providers.
	GetAll(ctx context.Context) ([]models.Provider, error)
	// GetAllIDs retrieves only the ids of all providers, for sweeps.
	GetAllIDs(ctx context.Context) ([]string, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// UpdateProfile writes the editable profile fields. Score fields are never touched.
	UpdateProfile(ctx context.Context, provider *models.Provider) error
	// UpdateScore is the only writer of reliabilityScore and lastScoreUpdate.
	UpdateScore(ctx context.Context, id string, score int, at time.Time) error
	// Delete removes a provider record by its ID.
	Delete(ctx context.Context, id string) error
}
