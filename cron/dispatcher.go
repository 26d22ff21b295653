package cron

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher enqueues score tasks for the worker.
type Dispatcher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{Client: asynq.NewClient(RedisOpt()), Logger: logger}
}

// EnqueueScoreSweep queues a full sweep. A sweep already queued is not an error.
func (d *Dispatcher) EnqueueScoreSweep(ctx context.Context) error {
	task, opts := NewScoreSweepTask()
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		d.Logger.Info("score sweep already queued")
		return nil
	}
	if err != nil {
		return err
	}
	d.Logger.Info("score sweep enqueued", zap.String("taskId", info.ID))
	return nil
}

func (d *Dispatcher) EnqueueProviderScore(ctx context.Context, providerID string) error {
	task, opts, err := NewProviderScoreTask(providerID)
	if err != nil {
		return err
	}
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}
	d.Logger.Debug("provider score enqueued", zap.String("providerId", providerID), zap.String("taskId", info.ID))
	return nil
}

func (d *Dispatcher) Close() error {
	return d.Client.Close()
}
