package booking

import (
	"context"
	"time"

	bookingRepo "hirewise/database/repository/booking"
	providerRepo "hirewise/database/repository/provider"
	"hirewise/models"
	"hirewise/services/notification"
	"hirewise/utils"

	"go.uber.org/zap"
)

// BookingService is the booking lifecycle: creation behind the conflict guard, the dual-track
// status machine, admin verification, arrival and the one-shot ratings.
type BookingService interface {
	HasConflict(ctx context.Context, providerID, date string, slot models.TimeSlot) (bool, error)
	CreateBooking(ctx context.Context, actor models.Actor, in models.CreateBookingInput) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, actor models.Actor, in models.StatusUpdateInput) (*models.Booking, error)
	Verify(ctx context.Context, bookingID string, actor models.Actor, in models.VerificationInput) (*models.Booking, error)
	RecordArrival(ctx context.Context, bookingID string, actor models.Actor, in models.ArrivalInput) (*models.Booking, error)
	SubmitReview(ctx context.Context, bookingID string, actor models.Actor, in models.RatingInput) (*models.Booking, error)
	SubmitProviderRating(ctx context.Context, bookingID string, actor models.Actor, in models.RatingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	ListForProvider(ctx context.Context, providerID string, actor models.Actor) ([]models.Booking, error)
}

// ScoreUpdater is the slice of the score engine the lifecycle triggers.
type ScoreUpdater interface {
	UpdateProviderScore(ctx context.Context, providerID string) (int, error)
	InvalidateTrend(ctx context.Context, providerID string)
}

const defaultStatusRetries = 5

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Providers  providerRepo.ProviderRepository
	Scores     ScoreUpdater
	Notifier   notification.Emitter
	Logger     *zap.Logger
	Now        func() time.Time
	MaxRetries int

	locks utils.KeyedMutex
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	providers providerRepo.ProviderRepository,
	scores ScoreUpdater,
	notifier notification.Emitter,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:       repo,
		Providers:  providers,
		Scores:     scores,
		Notifier:   notifier,
		Logger:     logger,
		Now:        time.Now,
		MaxRetries: defaultStatusRetries,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingService) retries() int {
	if s.MaxRetries <= 0 {
		return defaultStatusRetries
	}
	return s.MaxRetries
}
