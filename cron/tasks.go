package cron

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeScoreRefreshAll      = "score:refresh_all"
	TypeScoreRefreshProvider = "score:refresh_provider"
	TypeQuoteExpire          = "quote:expire"
)

// ProviderScorePayload identifies the provider whose score should be recomputed.
type ProviderScorePayload struct {
	ProviderID string `json:"providerId"`
}

// NewScoreSweepTask builds the task that recomputes every provider. The unique window keeps
// the scheduler and manual triggers from queueing overlapping sweeps.
func NewScoreSweepTask() (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeScoreRefreshAll, nil)
	opts := []asynq.Option{
		asynq.MaxRetry(2),
		asynq.Timeout(30 * time.Minute),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts
}

func NewProviderScoreTask(providerID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ProviderScorePayload{ProviderID: providerID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeScoreRefreshProvider, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(time.Minute)}
	return task, opts, nil
}

func NewQuoteExpiryTask() (*asynq.Task, []asynq.Option) {
	return asynq.NewTask(TypeQuoteExpire, nil), []asynq.Option{asynq.MaxRetry(3), asynq.Timeout(5 * time.Minute)}
}
