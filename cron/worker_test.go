package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"hirewise/models"
	"hirewise/utils"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScores struct {
	refreshed []string
	summary   models.SweepSummary
	err       error
}

func (f *fakeScores) UpdateProviderScore(_ context.Context, providerID string) (int, error) {
	f.refreshed = append(f.refreshed, providerID)
	return 70, f.err
}

func (f *fakeScores) UpdateAllScores(context.Context) (models.SweepSummary, error) {
	return f.summary, f.err
}

type fakeQuotes struct {
	expired int64
	calls   int
}

func (f *fakeQuotes) ExpireStale(context.Context) (int64, error) {
	f.calls++
	return f.expired, nil
}

func TestProviderScoreTask(t *testing.T) {
	task, opts, err := NewProviderScoreTask("p1")
	require.NoError(t, err)
	assert.Equal(t, TypeScoreRefreshProvider, task.Type())
	assert.NotEmpty(t, opts)

	var p ProviderScorePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "p1", p.ProviderID)
}

func TestHandleProviderScore(t *testing.T) {
	scores := &fakeScores{}
	w := NewWorker(scores, &fakeQuotes{}, zap.NewNop())
	ctx := context.Background()

	task, _, _ := NewProviderScoreTask("p1")
	require.NoError(t, w.handleProviderScore(ctx, task))
	assert.Equal(t, []string{"p1"}, scores.refreshed)

	scores.err = utils.NewNotFoundError("provider p1 not found")
	err := w.handleProviderScore(ctx, task)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	scores.err = utils.NewInternalError(errors.New("mongo down"), "failed")
	err = w.handleProviderScore(ctx, task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	err = w.handleProviderScore(ctx, asynq.NewTask(TypeScoreRefreshProvider, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleScoreSweep(t *testing.T) {
	scores := &fakeScores{summary: models.SweepSummary{Skipped: true}}
	w := NewWorker(scores, &fakeQuotes{}, zap.NewNop())
	task, _ := NewScoreSweepTask()

	assert.NoError(t, w.handleScoreSweep(context.Background(), task))

	scores.err = context.Canceled
	assert.ErrorIs(t, w.handleScoreSweep(context.Background(), task), context.Canceled)
}

func TestHandleQuoteExpiry(t *testing.T) {
	quotes := &fakeQuotes{expired: 3}
	w := NewWorker(&fakeScores{}, quotes, nil)
	task, _ := NewQuoteExpiryTask()

	require.NoError(t, w.handleQuoteExpiry(context.Background(), task))
	assert.Equal(t, 1, quotes.calls)
}
