package servicerequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirewise/database/repository"
	providerRepo "hirewise/database/repository/provider"
	serviceRequestRepo "hirewise/database/repository/servicerequest"
	"hirewise/models"
	"hirewise/services/notification"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceRequestService is the single-status negotiation lifecycle. It has no slot conflict guard.
type ServiceRequestService interface {
	Create(ctx context.Context, actor models.Actor, in models.CreateServiceRequestInput) (*models.ServiceRequest, error)
	SendEstimate(ctx context.Context, requestID string, actor models.Actor, amount float64) (*models.ServiceRequest, error)
	Advance(ctx context.Context, requestID string, actor models.Actor, action models.ServiceRequestAction) (*models.ServiceRequest, error)
	Get(ctx context.Context, requestID string, actor models.Actor) (*models.ServiceRequest, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.ServiceRequest, error)
	ListForProvider(ctx context.Context, providerID string, actor models.Actor) ([]models.ServiceRequest, error)
}

type transition struct {
	status     models.ServiceRequestStatus
	stamp      string
	byCustomer bool
	byProvider bool
}

// transitions maps each action to the status it sets and the timestamp it stamps.
var transitions = map[models.ServiceRequestAction]transition{
	models.ActionAccept:   {status: models.RequestAccepted, stamp: "acceptedAt", byCustomer: true},
	models.ActionStart:    {status: models.RequestInProgress, stamp: "startedAt", byProvider: true},
	models.ActionComplete: {status: models.RequestCompleted, stamp: "completedAt", byProvider: true},
	models.ActionCancel:   {status: models.RequestCancelled, stamp: "cancelledAt", byCustomer: true, byProvider: true},
}

type DefaultServiceRequestService struct {
	Repo      serviceRequestRepo.ServiceRequestRepository
	Providers providerRepo.ProviderRepository
	Notifier  notification.Emitter
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultServiceRequestService(
	repo serviceRequestRepo.ServiceRequestRepository,
	providers providerRepo.ProviderRepository,
	notifier notification.Emitter,
	logger *zap.Logger,
) *DefaultServiceRequestService {
	return &DefaultServiceRequestService{Repo: repo, Providers: providers, Notifier: notifier, Logger: logger, Now: time.Now}
}

func (s *DefaultServiceRequestService) Create(ctx context.Context, actor models.Actor, in models.CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.Providers.GetByID(ctx, in.ProviderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("provider %s not found", in.ProviderID)
		}
		return nil, utils.NewInternalError(err, "failed to load provider %s", in.ProviderID)
	}

	now := s.now()
	req := &models.ServiceRequest{
		ID:            uuid.New().String(),
		CustomerID:    actor.ID,
		ProviderID:    in.ProviderID,
		Description:   in.Description,
		ScheduledAt:   in.ScheduledAt.UTC(),
		Address:       in.Address,
		EstimatedCost: in.EstimatedCost,
		Status:        models.RequestRequested,
		Timestamps:    models.RequestTimestamps{RequestedAt: &now},
		CreatedAt:     now,
	}
	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, utils.NewInternalError(err, "failed to create service request")
	}
	s.logger().Info("service request created", zap.String("requestId", req.ID), zap.String("providerId", req.ProviderID))
	return req, nil
}

// SendEstimate records the provider's price and moves the request to quote_sent.
func (s *DefaultServiceRequestService) SendEstimate(ctx context.Context, requestID string, actor models.Actor, amount float64) (*models.ServiceRequest, error) {
	if amount <= 0 {
		return nil, utils.NewValidationError("amount must be greater than zero")
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.OwnsProvider(req.ProviderID) {
		return nil, utils.NewUnauthorizedError("only the request's provider may send an estimate")
	}
	if req.Status != models.RequestRequested && req.Status != models.RequestQuoteSent {
		return nil, utils.NewValidationError("cannot send an estimate on a %s request", req.Status)
	}
	if err := s.Repo.SetEstimate(ctx, requestID, amount, s.now()); err != nil {
		return nil, s.writeError(err, requestID)
	}
	return s.load(ctx, requestID)
}

// Advance applies a lifecycle verb: it sets the mapped status and stamps the matching timestamp.
func (s *DefaultServiceRequestService) Advance(ctx context.Context, requestID string, actor models.Actor, action models.ServiceRequestAction) (*models.ServiceRequest, error) {
	tr, ok := transitions[action]
	if !ok {
		return nil, utils.NewValidationError("unknown action %q", action)
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	allowed := actor.IsAdmin ||
		(tr.byCustomer && actor.ID != "" && actor.ID == req.CustomerID) ||
		(tr.byProvider && actor.OwnsProvider(req.ProviderID))
	if !allowed {
		return nil, utils.NewUnauthorizedError("not allowed to %s this request", action)
	}

	if err := s.Repo.SetStatus(ctx, requestID, tr.status, tr.stamp, s.now()); err != nil {
		return nil, s.writeError(err, requestID)
	}
	updated, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if tr.status == models.RequestCompleted && s.Notifier != nil {
		s.Notifier.Emit(ctx, models.NotificationInput{
			UserID:   updated.CustomerID,
			Type:     models.NotifyServiceCompleted,
			Title:    "Service completed",
			Message:  fmt.Sprintf("Your request %q has been completed. Leave a review?", truncate(updated.Description, 60)),
			Link:     "/service-requests/" + updated.ID,
			Metadata: map[string]any{"serviceRequestId": updated.ID},
		})
	}
	return updated, nil
}

func (s *DefaultServiceRequestService) Get(ctx context.Context, requestID string, actor models.Actor) (*models.ServiceRequest, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && actor.ID != req.CustomerID && !actor.OwnsProvider(req.ProviderID) {
		return nil, utils.NewUnauthorizedError("not a participant of service request %s", requestID)
	}
	return req, nil
}

func (s *DefaultServiceRequestService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.ServiceRequest, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	reqs, err := s.Repo.FindByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list service requests")
	}
	return reqs, nil
}

func (s *DefaultServiceRequestService) ListForProvider(ctx context.Context, providerID string, actor models.Actor) ([]models.ServiceRequest, error) {
	if !actor.IsAdmin && !actor.OwnsProvider(providerID) {
		return nil, utils.NewUnauthorizedError("only the provider or an admin may list its requests")
	}
	reqs, err := s.Repo.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list service requests for provider %s", providerID)
	}
	return reqs, nil
}

func (s *DefaultServiceRequestService) load(ctx context.Context, id string) (*models.ServiceRequest, error) {
	req, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("service request %s not found", id)
		}
		return nil, utils.NewInternalError(err, "failed to load service request %s", id)
	}
	return req, nil
}

func (s *DefaultServiceRequestService) writeError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFoundError("service request %s not found", id)
	}
	return utils.NewInternalError(err, "failed to update service request %s", id)
}

func (s *DefaultServiceRequestService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultServiceRequestService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func truncate(v string, n int) string {
	r := []rune(v)
	if len(r) <= n {
		return v
	}
	return string(r[:n]) + "..."
}
