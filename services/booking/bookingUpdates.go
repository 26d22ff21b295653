package booking

import (
	"context"
	"errors"
	"fmt"

	"hirewise/database/repository"
	"hirewise/models"
	"hirewise/services/scoring"
	"hirewise/utils"

	"go.uber.org/zap"
)

// mutate serializes read-modify-write on one booking. Writers in this process queue on a
// per-booking lock; writers elsewhere are caught by the version check and retried on fresh state.
func (s *DefaultBookingService) mutate(ctx context.Context, id string, apply func(b *models.Booking) error) (*models.Booking, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	for attempt := 1; attempt <= s.retries(); attempt++ {
		b, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, bookingLoadError(err, id)
		}
		expected := b.Version
		if err := apply(b); err != nil {
			return nil, err
		}
		b.UpdatedAt = s.now()

		err = s.Repo.ReplaceWithVersion(ctx, b, expected)
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, repository.ErrVersionConflict):
			s.logger().Debug("booking write raced, retrying",
				zap.String("bookingId", id), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, repository.ErrDuplicate):
			return nil, utils.NewSlotConflictError("slot %s %s is already held by another booking", b.Details.Date, b.Details.TimeSlot)
		default:
			return nil, utils.NewInternalError(err, "failed to update booking %s", id)
		}
	}
	return nil, utils.NewInternalError(errContention, "gave up updating booking %s after %d attempts", id, s.retries())
}

func (s *DefaultBookingService) appendTimeline(b *models.Booking, actor models.Actor, status, note string) {
	b.Timeline = append(b.Timeline, models.TimelineEntry{
		Status:    status,
		Timestamp: s.now(),
		Note:      note,
		Actor:     actor.ID,
		ActorRole: actor.Role(),
	})
}

// UpdateStatus sets whichever of status / workStatus is given, with no transition table, and
// appends exactly one timeline entry.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, bookingID string, actor models.Actor, in models.StatusUpdateInput) (*models.Booking, error) {
	if in.Status == nil && in.WorkStatus == nil {
		return nil, utils.NewValidationError("status or workStatus is required")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, utils.NewValidationError("unknown status %q", *in.Status)
	}
	if in.WorkStatus != nil && !in.WorkStatus.Valid() {
		return nil, utils.NewValidationError("unknown workStatus %q", *in.WorkStatus)
	}

	var becameCompleted bool
	updated, err := s.mutate(ctx, bookingID, func(b *models.Booking) error {
		if !actor.IsAdmin && !b.IsParticipant(actor) {
			return utils.NewUnauthorizedError("only the booking's customer, provider or an admin may update it")
		}
		prev := b.Status

		label := ""
		if in.Status != nil {
			b.Status = *in.Status
			label = string(*in.Status)
		}
		if in.WorkStatus != nil {
			b.WorkStatus = *in.WorkStatus
			if label == "" {
				label = string(*in.WorkStatus)
			}
			if b.WorkStatus == models.WorkStarted && b.ActualArrival == nil {
				arrived := s.now()
				b.ActualArrival = &arrived
				b.ArrivalStatus = scoring.ClassifyArrival(b.Details.ScheduledAt, b.ActualArrival)
			}
		}
		b.CompletionStatus = scoring.ClassifyCompletion(b.WorkStatus, b.Status == models.BookingCompleted)

		note := in.Note
		if note == "" {
			note = "Status updated to " + label
		}
		s.appendTimeline(b, actor, string(b.Status), note)
		becameCompleted = prev != models.BookingCompleted && b.Status == models.BookingCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == models.BookingCompleted || updated.WorkStatus == models.WorkCompleted {
		s.refreshScore(ctx, updated)
	} else {
		s.invalidateTrend(ctx, updated.ProviderID)
	}
	if becameCompleted {
		s.notify(ctx, models.NotificationInput{
			UserID:   updated.CustomerID,
			Type:     models.NotifyServiceCompleted,
			Title:    "Booking completed",
			Message:  fmt.Sprintf("%s has been marked completed", updated.Service.Name),
			Link:     "/bookings/" + updated.ID,
			Metadata: map[string]any{"bookingId": updated.ID},
		})
	}
	return updated, nil
}

// Verify attaches the admin verification record. Status and workStatus are left alone.
func (s *DefaultBookingService) Verify(ctx context.Context, bookingID string, actor models.Actor, in models.VerificationInput) (*models.Booking, error) {
	if !actor.IsAdmin {
		return nil, utils.NewUnauthorizedError("admin access required")
	}
	return s.mutate(ctx, bookingID, func(b *models.Booking) error {
		at := s.now()
		b.AdminVerification = models.AdminVerification{
			IsVerified:          in.IsVerified,
			VerifiedBy:          actor.ID,
			VerifiedAt:          &at,
			Notes:               in.Notes,
			CustomerVerified:    in.CustomerVerified,
			ProviderVerified:    in.ProviderVerified,
			WorkQualityVerified: in.WorkQualityVerified,
		}
		note := "Admin verification recorded"
		if in.Notes != "" {
			note = note + ": " + in.Notes
		}
		s.appendTimeline(b, actor, string(b.Status), note)
		return nil
	})
}

// RecordArrival stores when the provider actually turned up and labels it against the slot start.
func (s *DefaultBookingService) RecordArrival(ctx context.Context, bookingID string, actor models.Actor, in models.ArrivalInput) (*models.Booking, error) {
	updated, err := s.mutate(ctx, bookingID, func(b *models.Booking) error {
		if !actor.IsAdmin && !actor.OwnsProvider(b.ProviderID) {
			return utils.NewUnauthorizedError("only the booking's provider or an admin may record arrival")
		}
		arrived := s.now()
		if in.ArrivedAt != nil {
			arrived = in.ArrivedAt.UTC()
		}
		b.ActualArrival = &arrived
		b.ArrivalStatus = scoring.ClassifyArrival(b.Details.ScheduledAt, b.ActualArrival)
		s.appendTimeline(b, actor, string(b.Status), "Provider arrival recorded: "+b.ArrivalStatus)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated.Status == models.BookingCompleted || updated.WorkStatus == models.WorkCompleted {
		s.refreshScore(ctx, updated)
	} else {
		s.invalidateTrend(ctx, updated.ProviderID)
	}
	return updated, nil
}

// SubmitReview records the customer's one rating of the job and feeds it into the score.
func (s *DefaultBookingService) SubmitReview(ctx context.Context, bookingID string, actor models.Actor, in models.RatingInput) (*models.Booking, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	updated, err := s.mutate(ctx, bookingID, func(b *models.Booking) error {
		if actor.ID == "" || actor.ID != b.CustomerID {
			return utils.NewUnauthorizedError("only the booking's customer may review it")
		}
		if b.CustomerRating != nil {
			return utils.NewDuplicateReviewError("booking %s has already been reviewed", b.ID)
		}
		b.CustomerRating = &models.Rating{Rating: in.Rating, Text: in.Text, Timestamp: s.now()}
		b.FeedbackStatus = scoring.ClassifyFeedback(in.Rating)
		s.appendTimeline(b, actor, string(b.Status), fmt.Sprintf("Customer rated %d/5", in.Rating))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshScore(ctx, updated)
	if p, err := s.Providers.GetByID(ctx, updated.ProviderID); err == nil {
		s.notify(ctx, models.NotificationInput{
			UserID:   p.UserID,
			Type:     models.NotifyReviewReceived,
			Title:    "New review",
			Message:  fmt.Sprintf("You received a %d-star review", in.Rating),
			Link:     "/bookings/" + updated.ID,
			Metadata: map[string]any{"bookingId": updated.ID, "rating": in.Rating},
		})
	} else {
		s.logger().Warn("review notification skipped", zap.String("providerId", updated.ProviderID), zap.Error(err))
	}
	return updated, nil
}

// SubmitProviderRating lets the provider rate the customer once. It has no effect on any score.
func (s *DefaultBookingService) SubmitProviderRating(ctx context.Context, bookingID string, actor models.Actor, in models.RatingInput) (*models.Booking, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, bookingID, func(b *models.Booking) error {
		if !actor.OwnsProvider(b.ProviderID) {
			return utils.NewUnauthorizedError("only the booking's provider may rate the customer")
		}
		if b.ProviderRating != nil {
			return utils.NewDuplicateReviewError("customer on booking %s has already been rated", b.ID)
		}
		b.ProviderRating = &models.Rating{Rating: in.Rating, Text: in.Text, Timestamp: s.now()}
		s.appendTimeline(b, actor, string(b.Status), fmt.Sprintf("Provider rated customer %d/5", in.Rating))
		return nil
	})
}

// invalidateTrend drops the cached prediction for changes that do not move the score.
func (s *DefaultBookingService) invalidateTrend(ctx context.Context, providerID string) {
	if s.Scores != nil {
		s.Scores.InvalidateTrend(ctx, providerID)
	}
}

// refreshScore is best-effort: the transition that triggered it has already been written.
func (s *DefaultBookingService) refreshScore(ctx context.Context, b *models.Booking) {
	if s.Scores == nil {
		return
	}
	if _, err := s.Scores.UpdateProviderScore(ctx, b.ProviderID); err != nil {
		s.logger().Warn("score recompute failed",
			zap.String("bookingId", b.ID),
			zap.String("providerId", b.ProviderID),
			zap.Error(err),
		)
	}
}
