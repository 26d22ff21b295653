package booking

import (
	"context"

	"hirewise/models"
	"hirewise/utils"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, bookingLoadError(err, bookingID)
	}
	if !actor.IsAdmin && !b.IsParticipant(actor) {
		return nil, utils.NewUnauthorizedError("not a participant of booking %s", bookingID)
	}
	return b, nil
}

func (s *DefaultBookingService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	bookings, err := s.Repo.FindByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list bookings")
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListForProvider(ctx context.Context, providerID string, actor models.Actor) ([]models.Booking, error) {
	if !actor.IsAdmin && !actor.OwnsProvider(providerID) {
		return nil, utils.NewUnauthorizedError("only the provider or an admin may list its bookings")
	}
	bookings, err := s.Repo.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list bookings for provider %s", providerID)
	}
	return bookings, nil
}
