package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirewise/database/repository"
	providerRepo "hirewise/database/repository/provider"
	quoteRepo "hirewise/database/repository/quote"
	"hirewise/models"
	"hirewise/services/notification"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService is the quote request lifecycle: customers post, providers bid, the customer accepts one.
type QuoteService interface {
	Create(ctx context.Context, actor models.Actor, in models.CreateQuoteRequestInput) (*models.QuoteRequest, error)
	SubmitQuote(ctx context.Context, requestID string, actor models.Actor, in models.SubmitQuoteInput) (*models.QuoteRequest, error)
	AcceptQuote(ctx context.Context, requestID, quoteID string, actor models.Actor) (*models.QuoteRequest, error)
	RejectRequest(ctx context.Context, requestID string, actor models.Actor) (*models.QuoteRequest, error)
	Get(ctx context.Context, requestID string, actor models.Actor) (*models.QuoteRequest, error)
	ListOpen(ctx context.Context, category string) ([]models.QuoteRequest, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.QuoteRequest, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type DefaultQuoteService struct {
	Repo      quoteRepo.QuoteRequestRepository
	Providers providerRepo.ProviderRepository
	Notifier  notification.Emitter
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultQuoteService(
	repo quoteRepo.QuoteRequestRepository,
	providers providerRepo.ProviderRepository,
	notifier notification.Emitter,
	logger *zap.Logger,
) *DefaultQuoteService {
	return &DefaultQuoteService{Repo: repo, Providers: providers, Notifier: notifier, Logger: logger, Now: time.Now}
}

func (s *DefaultQuoteService) Create(ctx context.Context, actor models.Actor, in models.CreateQuoteRequestInput) (*models.QuoteRequest, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, utils.NewValidationError("expiresAt must be in the future")
	}

	req := &models.QuoteRequest{
		ID:            uuid.New().String(),
		CustomerID:    actor.ID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Address:       in.Address,
		PreferredDate: in.PreferredDate,
		Budget:        in.Budget,
		Quotes:        []models.Quote{},
		Status:        models.QuoteRequestPending,
		ExpiresAt:     in.ExpiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, utils.NewInternalError(err, "failed to create quote request")
	}
	return req, nil
}

// SubmitQuote appends a provider's quote. The first quote moves the request to quoted; later
// quotes are still accepted while the request is open.
func (s *DefaultQuoteService) SubmitQuote(ctx context.Context, requestID string, actor models.Actor, in models.SubmitQuoteInput) (*models.QuoteRequest, error) {
	if actor.ProviderProfileID == "" {
		return nil, utils.NewUnauthorizedError("only providers may submit quotes")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Status.AcceptsQuotes() {
		return nil, utils.NewValidationError("quote request %s is %s and no longer accepts quotes", requestID, req.Status)
	}

	now := s.now()
	q := models.Quote{
		ID:         uuid.New().String(),
		ProviderID: actor.ProviderProfileID,
		Amount:     in.Amount,
		Message:    in.Message,
		Status:     models.QuotePending,
		CreatedAt:  now,
	}
	updated, err := s.Repo.AppendQuote(ctx, requestID, q, now)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, utils.NewValidationError("quote request %s no longer accepts quotes", requestID)
		}
		return nil, utils.NewInternalError(err, "failed to submit quote on %s", requestID)
	}

	s.emit(ctx, models.NotificationInput{
		UserID:  updated.CustomerID,
		Type:    models.NotifyQuoteSubmitted,
		Title:   "New quote received",
		Message: fmt.Sprintf("A provider quoted %.2f for %q", in.Amount, updated.Title),
		Link:    "/quote-requests/" + updated.ID,
		Metadata: map[string]any{
			"quoteRequestId": updated.ID,
			"quoteId":        q.ID,
			"providerId":     q.ProviderID,
		},
	})
	return updated, nil
}

// AcceptQuote marks the chosen quote and the request accepted. Sibling quotes keep their status.
func (s *DefaultQuoteService) AcceptQuote(ctx context.Context, requestID, quoteID string, actor models.Actor) (*models.QuoteRequest, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.ID == "" || actor.ID != req.CustomerID {
		return nil, utils.NewUnauthorizedError("only the request's customer may accept a quote")
	}
	target := req.FindQuote(quoteID)
	if target == nil {
		return nil, utils.NewNotFoundError("quote %s not found on request %s", quoteID, requestID)
	}
	if !req.Status.AcceptsQuotes() {
		return nil, utils.NewValidationError("quote request %s is already %s", requestID, req.Status)
	}

	updated, err := s.Repo.AcceptQuote(ctx, requestID, quoteID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("quote %s not found on request %s", quoteID, requestID)
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, utils.NewValidationError("quote request %s is no longer open", requestID)
		}
		return nil, utils.NewInternalError(err, "failed to accept quote %s", quoteID)
	}

	if p, err := s.Providers.GetByID(ctx, target.ProviderID); err == nil {
		s.emit(ctx, models.NotificationInput{
			UserID:  p.UserID,
			Type:    models.NotifyQuoteAccepted,
			Title:   "Quote accepted",
			Message: fmt.Sprintf("Your quote for %q was accepted", updated.Title),
			Link:    "/quote-requests/" + updated.ID,
			Metadata: map[string]any{
				"quoteRequestId": updated.ID,
				"quoteId":        quoteID,
			},
		})
	} else {
		s.logger().Warn("quote accepted notification skipped", zap.String("providerId", target.ProviderID), zap.Error(err))
	}
	return updated, nil
}

// RejectRequest acknowledges a provider passing on a request. Nothing is written.
func (s *DefaultQuoteService) RejectRequest(ctx context.Context, requestID string, actor models.Actor) (*models.QuoteRequest, error) {
	if actor.ProviderProfileID == "" {
		return nil, utils.NewUnauthorizedError("only providers may reject a quote request")
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	s.logger().Debug("provider passed on quote request",
		zap.String("quoteRequestId", requestID), zap.String("providerId", actor.ProviderProfileID))
	return req, nil
}

// Get is open to the owning customer, admins and any provider.
func (s *DefaultQuoteService) Get(ctx context.Context, requestID string, actor models.Actor) (*models.QuoteRequest, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && actor.ProviderProfileID == "" && actor.ID != req.CustomerID {
		return nil, utils.NewUnauthorizedError("not allowed to view quote request %s", requestID)
	}
	return req, nil
}

func (s *DefaultQuoteService) ListOpen(ctx context.Context, category string) ([]models.QuoteRequest, error) {
	reqs, err := s.Repo.FindOpen(ctx, category)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list open quote requests")
	}
	return reqs, nil
}

func (s *DefaultQuoteService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.QuoteRequest, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	reqs, err := s.Repo.FindByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to list quote requests")
	}
	return reqs, nil
}

// ExpireStale moves open requests past their expiresAt to expired.
func (s *DefaultQuoteService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.Repo.ExpireBefore(ctx, s.now())
	if err != nil {
		return 0, utils.NewInternalError(err, "failed to expire quote requests")
	}
	if n > 0 {
		s.logger().Info("expired stale quote requests", zap.Int64("count", n))
	}
	return n, nil
}

func (s *DefaultQuoteService) load(ctx context.Context, id string) (*models.QuoteRequest, error) {
	req, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("quote request %s not found", id)
		}
		return nil, utils.NewInternalError(err, "failed to load quote request %s", id)
	}
	return req, nil
}

func (s *DefaultQuoteService) emit(ctx context.Context, in models.NotificationInput) {
	if s.Notifier != nil {
		s.Notifier.Emit(ctx, in)
	}
}

func (s *DefaultQuoteService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultQuoteService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
