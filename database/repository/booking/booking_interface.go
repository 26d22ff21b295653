package bookingRepo

import (
	"context"

	"hirewise/models"
)

// BookingRepository defines data access for bookings. Bookings reference their provider by key;
// "all bookings for a provider" is always a query, never a stored list.
type BookingRepository interface {
	// Create inserts a booking. A second active booking for the same (provider, date, slot) yields repository.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindByProvider returns every booking for the provider ordered by creation time.
	FindByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	// ExistsActiveInSlot reports whether a slot-holding booking exists for (provider, date, slot).
	ExistsActiveInSlot(ctx context.Context, providerID, date string, slot models.TimeSlot) (bool, error)
	CountActiveByProvider(ctx context.Context, providerID string) (int64, error)
	// ReplaceWithVersion writes the booking only if the stored version still equals expectedVersion,
	// bumping the version on success. A lost race yields repository.ErrVersionConflict.
	ReplaceWithVersion(ctx context.Context, booking *models.Booking, expectedVersion int) error
}
