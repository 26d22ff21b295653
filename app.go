package main

import (
	"context"
	"fmt"

	"hirewise/config"
	"hirewise/database"
	bookingRepo "hirewise/database/repository/booking"
	notificationRepo "hirewise/database/repository/notification"
	providerRepo "hirewise/database/repository/provider"
	quoteRepo "hirewise/database/repository/quote"
	reviewRepo "hirewise/database/repository/review"
	serviceRequestRepo "hirewise/database/repository/servicerequest"
	"hirewise/services/booking"
	"hirewise/services/notification"
	"hirewise/services/provider"
	"hirewise/services/quote"
	"hirewise/services/review"
	"hirewise/services/scoring"
	"hirewise/services/servicerequest"
	"hirewise/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// app holds the wired services shared by every command.
type app struct {
	mongo *mongo.Client
	cache *redis.Client

	providers     *provider.DefaultProviderService
	bookings      *booking.DefaultBookingService
	requests      *servicerequest.DefaultServiceRequestService
	reviews       *review.DefaultReviewService
	quotes        *quote.DefaultQuoteService
	scores        *scoring.DefaultScoreService
	notifications *notification.DefaultNotificationService
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func bootstrap(ctx context.Context, logger *zap.Logger) (*app, error) {
	if err := database.InitDB(ctx); err != nil {
		return nil, err
	}
	db := database.Database()

	provRepo := providerRepo.NewMongoProviderRepo(db)
	bookRepo := bookingRepo.NewMongoBookingRepo(db)
	srRepo := serviceRequestRepo.NewMongoServiceRequestRepo(db)
	qRepo := quoteRepo.NewMongoQuoteRequestRepo(db)
	revRepo := reviewRepo.NewMongoReviewRepo(db)
	notifRepo := notificationRepo.NewMongoNotificationRepo(db)

	for _, repo := range []indexer{provRepo, bookRepo, srRepo, qRepo, revRepo, notifRepo} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
	}

	scores := scoring.NewDefaultScoreService(bookRepo, provRepo, logger.Named("scoring"))
	if err := utils.InitCache(ctx); err != nil {
		// Trend caching and the sweep lock are optional; scoring works without Redis.
		logger.Warn("redis cache unavailable", zap.Error(err))
	} else {
		scores.Cache = scoring.NewRedisTrendCache(utils.GetCacheClient(), config.AppConfig.TrendCacheTTL)
		scores.Locker = scoring.NewRedisSweepLocker(utils.GetCacheClient(), scoring.DefaultSweepLockTTL)
	}

	var pusher notification.PushSender
	fcm, err := utils.FirebaseInit(ctx)
	if err != nil {
		logger.Warn("push delivery disabled", zap.Error(err))
	} else if fcm != nil {
		pusher = notification.NewFCMPusher(fcm)
	}
	notifications := notification.NewDefaultNotificationService(notifRepo, pusher, logger.Named("notification"))

	bookings := booking.NewDefaultBookingService(bookRepo, provRepo, scores, notifications, logger.Named("booking"))
	if config.AppConfig.StatusUpdateRetries > 0 {
		bookings.MaxRetries = config.AppConfig.StatusUpdateRetries
	}

	return &app{
		mongo:         database.MongoClient,
		cache:         utils.GetCacheClient(),
		providers:     provider.NewDefaultProviderService(provRepo, bookRepo, logger.Named("provider")),
		bookings:      bookings,
		requests:      servicerequest.NewDefaultServiceRequestService(srRepo, provRepo, notifications, logger.Named("servicerequest")),
		reviews:       review.NewDefaultReviewService(revRepo, srRepo, provRepo, notifications, logger.Named("review")),
		quotes:        quote.NewDefaultQuoteService(qRepo, provRepo, notifications, logger.Named("quote")),
		scores:        scores,
		notifications: notifications,
	}, nil
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	_ = database.Close(context.Background())
}
