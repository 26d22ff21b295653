package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"hirewise/database/repository"
	notificationRepo "hirewise/database/repository/notification"
	"hirewise/models"
	"hirewise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Emitter is the fire-and-forget sink lifecycle transitions call. It never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, in models.NotificationInput) *models.Notification
}

// NotificationService defines the stored-notification inbox plus the emitter.
type NotificationService interface {
	Emitter
	ListForUser(ctx context.Context, actor models.Actor, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, actor models.Actor, notificationID string) error
	UnreadCount(ctx context.Context, actor models.Actor) (int64, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
	pushTimeout      = 10 * time.Second
)

// DefaultNotificationService persists every notification and then pushes it when a pusher is configured.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Pusher PushSender
	Logger *zap.Logger
	Now    func() time.Time

	pushes sync.WaitGroup
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, pusher PushSender, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Repo: repo, Pusher: pusher, Logger: logger, Now: time.Now}
}

// Emit stores the notification and fires the push in the background. Failures are logged and
// reported as a nil result.
func (s *DefaultNotificationService) Emit(ctx context.Context, in models.NotificationInput) *models.Notification {
	if in.UserID == "" {
		s.logger().Warn("notification dropped: no recipient", zap.String("type", string(in.Type)))
		return nil
	}

	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		Metadata:  in.Metadata,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.logger().Error("failed to store notification",
			zap.String("userId", in.UserID),
			zap.String("type", string(in.Type)),
			zap.Error(err),
		)
		return nil
	}

	if s.Pusher != nil {
		s.pushes.Add(1)
		go func(n models.Notification) {
			defer s.pushes.Done()
			pctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			defer cancel()
			if err := s.Pusher.Push(pctx, n.UserID, &n); err != nil {
				s.logger().Warn("push delivery failed",
					zap.String("notificationId", n.ID),
					zap.String("userId", n.UserID),
					zap.Error(err),
				)
			}
		}(*n)
	}
	return n
}

// Wait blocks until in-flight pushes finish. Used on shutdown and in tests.
func (s *DefaultNotificationService) Wait() {
	s.pushes.Wait()
}

func (s *DefaultNotificationService) ListForUser(ctx context.Context, actor models.Actor, unreadOnly bool, limit int64) ([]models.Notification, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	items, err := s.Repo.FindByUser(ctx, actor.ID, unreadOnly, limit)
	if err != nil {
		return nil, utils.NewInternalError(err, "failed to load notifications")
	}
	return items, nil
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, actor models.Actor, notificationID string) error {
	if actor.ID == "" {
		return utils.NewUnauthorizedError("authentication required")
	}
	if err := s.Repo.MarkRead(ctx, notificationID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError("notification %s not found", notificationID)
		}
		return utils.NewInternalError(err, "failed to mark notification %s read", notificationID)
	}
	return nil
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	if actor.ID == "" {
		return 0, utils.NewUnauthorizedError("authentication required")
	}
	n, err := s.Repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, utils.NewInternalError(err, "failed to count notifications")
	}
	return n, nil
}

func (s *DefaultNotificationService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultNotificationService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
