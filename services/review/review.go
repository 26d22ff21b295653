package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirewise/database/repository"
	providerRepo "hirewise/database/repository/provider"
	reviewRepo "hirewise/database/repository/review"
	serviceRequestRepo "hirewise/database/repository/servicerequest"
	"hirewise/models"
	"hirewise/services/notification"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles reviews scoped to a completed service request.
type ReviewService interface {
	SubmitServiceReview(ctx context.Context, requestID string, actor models.Actor, in models.ReviewInput) (*models.Review, error)
	ListForProvider(ctx context.Context, providerID string) ([]models.Review, error)
}

type DefaultReviewService struct {
	Repo      reviewRepo.ReviewRepository
	Requests  serviceRequestRepo.ServiceRequestRepository
	Providers providerRepo.ProviderRepository
	Notifier  notification.Emitter
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultReviewService(
	repo reviewRepo.ReviewRepository,
	requests serviceRequestRepo.ServiceRequestRepository,
	providers providerRepo.ProviderRepository,
	notifier notification.Emitter,
	logger *zap.Logger,
) *DefaultReviewService {
	return &DefaultReviewService{
		Repo:      repo,
		Requests:  requests,
		Providers: providers,
		Notifier:  notifier,
		Logger:    logger,
		Now:       time.Now,
	}
}

// SubmitServiceReview stores the customer's review. Only one review may exist per request;
// the unique index on serviceRequestId settles concurrent submissions.
func (s *DefaultReviewService) SubmitServiceReview(ctx context.Context, requestID string, actor models.Actor, in models.ReviewInput) (*models.Review, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("service request %s not found", requestID)
		}
		return nil, utils.NewInternalError(err, "failed to load service request %s", requestID)
	}
	if actor.ID == "" || actor.ID != req.CustomerID {
		return nil, utils.NewUnauthorizedError("only the request's customer may review it")
	}
	if req.Status != models.RequestCompleted {
		return nil, utils.NewValidationError("service request %s is not completed", requestID)
	}

	review := &models.Review{
		ID:               uuid.New().String(),
		ServiceRequestID: req.ID,
		CustomerID:       actor.ID,
		ProviderID:       req.ProviderID,
		Rating:           in.Rating,
		Comment:          in.Comment,
		Photos:           in.Photos,
		CreatedAt:        s.now(),
	}
	if err := s.Repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewDuplicateReviewError("service request %s has already been reviewed", requestID)
		}
		return nil, utils.NewInternalError(err, "failed to store review")
	}

	if s.Notifier != nil {
		if p, err := s.Providers.GetByID(ctx, req.ProviderID); err == nil {
			s.Notifier.Emit(ctx, models.NotificationInput{
				UserID:  p.UserID,
				Type:    models.NotifyReviewReceived,
				Title:   "New review",
				Message: fmt.Sprintf("You received a %d-star review", in.Rating),
				Link:    "/reviews/" + review.ID,
				Metadata: map[string]any{
					"reviewId":         review.ID,
					"serviceRequestId": req.ID,
					"rating":           in.Rating,
				},
			})
		} else {
			s.logger().Warn("review notification skipped", zap.String("providerId", req.ProviderID), zap.Error(err))
		}
	}
	return review, nil
}

func (s *DefaultReviewService) ListForProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	reviews, err := s.Repo.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list reviews for provider %s", providerID)
	}
	return reviews, nil
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultReviewService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
