package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirewise/database/repository"
	"hirewise/models"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// slotStarts is the scheduled start of each slot, as an offset from midnight UTC.
var slotStarts = map[models.TimeSlot]time.Duration{
	models.SlotMorning:   8 * time.Hour,
	models.SlotAfternoon: 12 * time.Hour,
	models.SlotEvening:   16 * time.Hour,
}

// SlotStart returns the scheduled start of a slot on the given calendar day.
func SlotStart(day time.Time, slot models.TimeSlot) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return d.Add(slotStarts[slot])
}

// HasConflict reports whether the provider already has a slot-holding booking on that day and slot.
// Time of day in date is ignored.
func (s *DefaultBookingService) HasConflict(ctx context.Context, providerID, date string, slot models.TimeSlot) (bool, error) {
	if !slot.Valid() {
		return false, utils.NewValidationError("timeSlot must be one of Morning, Afternoon, Evening")
	}
	day, _, err := utils.NormalizeDate(date)
	if err != nil {
		return false, err
	}
	taken, err := s.Repo.ExistsActiveInSlot(ctx, providerID, day, slot)
	if err != nil {
		return false, utils.NewInternalError(err, "failed to check slot for provider %s", providerID)
	}
	return taken, nil
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, in models.CreateBookingInput) (*models.Booking, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	date, day, err := utils.NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	slot := models.TimeSlot(in.TimeSlot)

	provider, err := s.Providers.GetByID(ctx, in.ProviderID)
	if err != nil {
		return nil, providerLoadError(err, in.ProviderID)
	}
	if !provider.IsAvailable {
		return nil, utils.NewValidationError("provider %s is not accepting bookings", provider.ID)
	}
	if actor.OwnsProvider(provider.ID) {
		return nil, utils.NewValidationError("providers cannot book themselves")
	}

	conflict, err := s.HasConflict(ctx, provider.ID, date, slot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, utils.NewSlotConflictError("provider %s is already booked on %s (%s)", provider.ID, date, slot)
	}

	now := s.now()
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	booking := &models.Booking{
		ID:         uuid.New().String(),
		CustomerID: actor.ID,
		ProviderID: provider.ID,
		Service: models.ServiceDetails{
			Name:        in.ServiceName,
			Description: in.ServiceDescription,
			Category:    firstNonEmpty(in.ServiceCategory, provider.Category),
		},
		Details: models.BookingDetails{
			Date:          date,
			TimeSlot:      slot,
			DurationHours: in.DurationHours,
			Address:       in.Address,
			Instructions:  in.Instructions,
			ScheduledAt:   SlotStart(day, slot),
		},
		Pricing: models.Pricing{
			HourlyRate:    provider.HourlyRate,
			TotalHours:    in.DurationHours,
			TotalAmount:   provider.HourlyRate * in.DurationHours,
			PaymentMethod: paymentMethod,
			PaymentStatus: "pending",
		},
		Status:           models.BookingPending,
		WorkStatus:       models.WorkBooked,
		CompletionStatus: models.CompletionNotCompleted,
		Timeline: []models.TimelineEntry{{
			Status:    string(models.BookingPending),
			Timestamp: now,
			Note:      "Booking created",
			Actor:     actor.ID,
			ActorRole: actor.Role(),
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		// Lost the race against a concurrent booking of the same slot.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewSlotConflictError("provider %s is already booked on %s (%s)", provider.ID, date, slot)
		}
		return nil, utils.NewInternalError(err, "failed to create booking")
	}

	s.invalidateTrend(ctx, provider.ID)

	s.logger().Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", provider.ID),
		zap.String("date", date),
		zap.String("slot", string(slot)),
	)

	s.notify(ctx, models.NotificationInput{
		UserID:  provider.UserID,
		Type:    models.NotifyBookingCreated,
		Title:   "New booking",
		Message: fmt.Sprintf("%s on %s (%s)", booking.Service.Name, date, slot),
		Link:    "/bookings/" + booking.ID,
		Metadata: map[string]any{
			"bookingId":  booking.ID,
			"customerId": actor.ID,
		},
	})
	return booking, nil
}

func (s *DefaultBookingService) notify(ctx context.Context, in models.NotificationInput) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(ctx, in)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
