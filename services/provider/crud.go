package provider

import (
	"context"
	"errors"

	"hirewise/database/repository"
	"hirewise/models"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultProviderService) CreateProvider(ctx context.Context, actor models.Actor, in models.CreateProviderInput) (*models.Provider, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	if actor.ProviderProfileID != "" {
		return nil, utils.NewValidationError("user %s already operates provider %s", actor.ID, actor.ProviderProfileID)
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Provider{
		ID:          uuid.New().String(),
		UserID:      actor.ID,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Bio:         in.Bio,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		HourlyRate:  in.HourlyRate,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewValidationError("a provider profile already exists for this account")
		}
		return nil, utils.NewInternalError(err, "failed to create provider")
	}
	s.logger().Info("provider created", zap.String("providerId", p.ID), zap.String("userId", actor.ID))
	return p, nil
}

func (s *DefaultProviderService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("provider %s not found", id)
		}
		return nil, utils.NewInternalError(err, "failed to load provider %s", id)
	}
	return p, nil
}

func (s *DefaultProviderService) ListProviders(ctx context.Context) ([]models.Provider, error) {
	providers, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list providers")
	}
	return providers, nil
}

// UpdateProfile applies a partial edit. Only the owning user or an admin may edit.
func (s *DefaultProviderService) UpdateProfile(ctx context.Context, id string, actor models.Actor, in models.ProviderUpdateRequest) (*models.Provider, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	p, err := s.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.OwnsProvider(p.ID) && actor.ID != p.UserID {
		return nil, utils.NewUnauthorizedError("only the provider's owner may edit its profile")
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		p.PhoneNumber = *in.PhoneNumber
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.SubCategory != nil {
		p.SubCategory = *in.SubCategory
	}
	if in.HourlyRate != nil {
		p.HourlyRate = *in.HourlyRate
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	p.UpdatedAt = s.now()

	if err := s.Repo.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("provider %s not found", id)
		}
		return nil, utils.NewInternalError(err, "failed to update provider %s", id)
	}
	return s.GetProvider(ctx, id)
}

// DeleteProvider refuses while any booking still holds a slot with the provider.
func (s *DefaultProviderService) DeleteProvider(ctx context.Context, id string, actor models.Actor) error {
	p, err := s.GetProvider(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && !actor.OwnsProvider(p.ID) && actor.ID != p.UserID {
		return utils.NewUnauthorizedError("only the provider's owner or an admin may delete it")
	}
	active, err := s.Bookings.CountActiveByProvider(ctx, id)
	if err != nil {
		return utils.NewInternalError(err, "failed to count active bookings for provider %s", id)
	}
	if active > 0 {
		return utils.NewValidationError("provider %s still has %d active bookings", id, active)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError("provider %s not found", id)
		}
		return utils.NewInternalError(err, "failed to delete provider %s", id)
	}
	s.logger().Info("provider deleted", zap.String("providerId", id), zap.String("by", actor.ID))
	return nil
}
