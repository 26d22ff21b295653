package scoring

import (
	"context"
	"errors"
	"time"

	"hirewise/database/repository"
	bookingRepo "hirewise/database/repository/booking"
	providerRepo "hirewise/database/repository/provider"
	"hirewise/models"
	"hirewise/utils"

	"go.uber.org/zap"
)

// ScoreService is the reliability score engine plus the on-demand trend predictor.
type ScoreService interface {
	// ComputeScore returns the 0..100 score from the provider's full booking history without persisting it.
	ComputeScore(ctx context.Context, providerID string) (int, error)
	// ComputeBreakdown returns the three rates alongside the score.
	ComputeBreakdown(ctx context.Context, providerID string) (models.ScoreBreakdown, error)
	// UpdateProviderScore recomputes and persists reliabilityScore and lastScoreUpdate.
	UpdateProviderScore(ctx context.Context, providerID string) (int, error)
	// UpdateAllScores sweeps every provider sequentially.
	UpdateAllScores(ctx context.Context) (models.SweepSummary, error)
	// PredictTrend forecasts the score direction. Results are never persisted on the provider.
	PredictTrend(ctx context.Context, providerID string) (models.TrendPrediction, error)
	// InvalidateTrend drops any cached prediction after the provider's booking history changed.
	InvalidateTrend(ctx context.Context, providerID string)
}

// DefaultScoreService implements ScoreService. Cache and Locker are optional.
type DefaultScoreService struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Cache     TrendCache
	Locker    SweepLocker
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultScoreService(bookings bookingRepo.BookingRepository, providers providerRepo.ProviderRepository, logger *zap.Logger) *DefaultScoreService {
	return &DefaultScoreService{
		Bookings:  bookings,
		Providers: providers,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultScoreService) ComputeScore(ctx context.Context, providerID string) (int, error) {
	b, err := s.ComputeBreakdown(ctx, providerID)
	if err != nil {
		return 0, err
	}
	return b.Score, nil
}

func (s *DefaultScoreService) ComputeBreakdown(ctx context.Context, providerID string) (models.ScoreBreakdown, error) {
	if err := s.ensureProvider(ctx, providerID); err != nil {
		return models.ScoreBreakdown{}, err
	}
	bookings, err := s.Bookings.FindByProvider(ctx, providerID)
	if err != nil {
		return models.ScoreBreakdown{}, utils.NewInternalError(err, "failed to load bookings for provider %s", providerID)
	}
	return Breakdown(providerID, bookings), nil
}

func (s *DefaultScoreService) UpdateProviderScore(ctx context.Context, providerID string) (int, error) {
	score, err := s.ComputeScore(ctx, providerID)
	if err != nil {
		return 0, err
	}
	if err := s.Providers.UpdateScore(ctx, providerID, score, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, utils.NewNotFoundError("provider %s not found", providerID)
		}
		return 0, utils.NewInternalError(err, "failed to persist score for provider %s", providerID)
	}
	s.InvalidateTrend(ctx, providerID)
	s.logger().Debug("provider score updated", zap.String("providerId", providerID), zap.Int("score", score))
	return score, nil
}

func (s *DefaultScoreService) UpdateAllScores(ctx context.Context) (models.SweepSummary, error) {
	summary := models.SweepSummary{StartedAt: s.now()}

	if s.Locker != nil {
		release, ok, err := s.Locker.TryLock(ctx)
		if err != nil {
			return summary, utils.NewInternalError(err, "failed to acquire sweep lock")
		}
		if !ok {
			summary.Skipped = true
			s.logger().Info("score sweep already running elsewhere, skipping")
			return summary, nil
		}
		defer release()
	}

	ids, err := s.Providers.GetAllIDs(ctx)
	if err != nil {
		return summary, utils.NewInternalError(err, "failed to list providers")
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			summary.Duration = s.now().Sub(summary.StartedAt)
			return summary, err
		}
		if _, err := s.UpdateProviderScore(ctx, id); err != nil {
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, id)
			s.logger().Warn("score refresh failed", zap.String("providerId", id), zap.Error(err))
			continue
		}
		summary.Updated++
	}

	summary.Duration = s.now().Sub(summary.StartedAt)
	s.logger().Info("score sweep finished",
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (s *DefaultScoreService) PredictTrend(ctx context.Context, providerID string) (models.TrendPrediction, error) {
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, providerID); err != nil {
			s.logger().Warn("trend cache read failed", zap.String("providerId", providerID), zap.Error(err))
		} else if ok {
			return *cached, nil
		}
	}

	if err := s.ensureProvider(ctx, providerID); err != nil {
		return models.TrendPrediction{}, err
	}
	bookings, err := s.Bookings.FindByProvider(ctx, providerID)
	if err != nil {
		return models.TrendPrediction{}, utils.NewInternalError(err, "failed to load bookings for provider %s", providerID)
	}

	scores := make([]int, 0, len(bookings))
	for i := range bookings {
		scores = append(scores, JobScore(&bookings[i]))
	}
	prediction := PredictTrendFromScores(scores)
	prediction.ProviderID = providerID

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, providerID, prediction); err != nil {
			s.logger().Warn("trend cache write failed", zap.String("providerId", providerID), zap.Error(err))
		}
	}
	return prediction, nil
}

func (s *DefaultScoreService) InvalidateTrend(ctx context.Context, providerID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, providerID); err != nil {
		s.logger().Warn("trend cache invalidation failed", zap.String("providerId", providerID), zap.Error(err))
	}
}

func (s *DefaultScoreService) ensureProvider(ctx context.Context, providerID string) error {
	if _, err := s.Providers.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError("provider %s not found", providerID)
		}
		return utils.NewInternalError(err, "failed to load provider %s", providerID)
	}
	return nil
}

func (s *DefaultScoreService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultScoreService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
