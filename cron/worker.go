package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hirewise/config"
	"hirewise/models"
	"hirewise/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ScoreRefresher is the slice of the score service the worker drives.
type ScoreRefresher interface {
	UpdateProviderScore(ctx context.Context, providerID string) (int, error)
	UpdateAllScores(ctx context.Context) (models.SweepSummary, error)
}

// QuoteExpirer closes quote requests whose expiry has passed.
type QuoteExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// Worker processes background scoring and quote maintenance tasks.
type Worker struct {
	Scores ScoreRefresher
	Quotes QuoteExpirer
	Logger *zap.Logger
}

func NewWorker(scores ScoreRefresher, quotes QuoteExpirer, logger *zap.Logger) *Worker {
	return &Worker{Scores: scores, Quotes: quotes, Logger: logger}
}

// RedisOpt is the queue connection shared by the server, scheduler and dispatcher.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Mux routes task types to the worker's handlers.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeScoreRefreshAll, w.handleScoreSweep)
	mux.HandleFunc(TypeScoreRefreshProvider, w.handleProviderScore)
	mux.HandleFunc(TypeQuoteExpire, w.handleQuoteExpiry)
	return mux
}

// Start runs the asynq server in the background, retrying startup with backoff.
// The returned server should be shut down on exit.
func (w *Worker) Start(ctx context.Context) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: newAsynqLogger(w.logger()),
		},
	)
	mux := w.Mux()

	go monitorRedisConnection(ctx, w.logger())

	go func() {
		w.logger().Info("starting background worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			w.logger().Error("worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger().Error("worker gave up; background scoring disabled")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// StartScheduler enqueues the periodic sweep and expiry tasks on their cron specs.
func StartScheduler(logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   newAsynqLogger(logger),
	})

	sweep, sweepOpts := NewScoreSweepTask()
	if _, err := scheduler.Register(config.AppConfig.ScoreRefreshCron, sweep, sweepOpts...); err != nil {
		return nil, fmt.Errorf("register score sweep %q: %w", config.AppConfig.ScoreRefreshCron, err)
	}
	expiry, expiryOpts := NewQuoteExpiryTask()
	if _, err := scheduler.Register(config.AppConfig.QuoteExpiryCron, expiry, expiryOpts...); err != nil {
		return nil, fmt.Errorf("register quote expiry %q: %w", config.AppConfig.QuoteExpiryCron, err)
	}
	if err := scheduler.Start(); err != nil {
		return nil, err
	}
	logger.Info("scheduler started",
		zap.String("scoreRefresh", config.AppConfig.ScoreRefreshCron),
		zap.String("quoteExpiry", config.AppConfig.QuoteExpiryCron))
	return scheduler, nil
}

func (w *Worker) handleScoreSweep(ctx context.Context, _ *asynq.Task) error {
	summary, err := w.Scores.UpdateAllScores(ctx)
	if err != nil {
		return err
	}
	if summary.Skipped {
		w.logger().Info("score sweep skipped: another sweep holds the lock")
	}
	return nil
}

func (w *Worker) handleProviderScore(ctx context.Context, task *asynq.Task) error {
	var p ProviderScorePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	score, err := w.Scores.UpdateProviderScore(ctx, p.ProviderID)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			w.logger().Warn("score refresh for unknown provider", zap.String("providerId", p.ProviderID))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	w.logger().Debug("provider score refreshed", zap.String("providerId", p.ProviderID), zap.Int("score", score))
	return nil
}

func (w *Worker) handleQuoteExpiry(ctx context.Context, _ *asynq.Task) error {
	n, err := w.Quotes.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		w.logger().Info("expired stale quote requests", zap.Int64("count", n))
	}
	return nil
}

func (w *Worker) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
