package provider

import (
	"context"
	"time"

	bookingRepo "hirewise/database/repository/booking"
	providerRepo "hirewise/database/repository/provider"
	"hirewise/models"

	"go.uber.org/zap"
)

// ProviderService defines provider profile operations. The reliability score fields are never
// written here; the score engine owns them.
type ProviderService interface {
	CreateProvider(ctx context.Context, actor models.Actor, in models.CreateProviderInput) (*models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	UpdateProfile(ctx context.Context, id string, actor models.Actor, in models.ProviderUpdateRequest) (*models.Provider, error)
	DeleteProvider(ctx context.Context, id string, actor models.Actor) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo     providerRepo.ProviderRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository, bookings bookingRepo.BookingRepository, logger *zap.Logger) *DefaultProviderService {
	return &DefaultProviderService{Repo: repo, Bookings: bookings, Logger: logger, Now: time.Now}
}

func (s *DefaultProviderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultProviderService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
