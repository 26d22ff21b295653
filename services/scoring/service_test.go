package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hirewise/models"
	"hirewise/testutil"
	"hirewise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryTrendCache struct {
	mu    sync.Mutex
	items map[string]models.TrendPrediction
	hits  int
}

func newMemoryTrendCache() *memoryTrendCache {
	return &memoryTrendCache{items: map[string]models.TrendPrediction{}}
}

func (c *memoryTrendCache) Get(_ context.Context, id string) (*models.TrendPrediction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &p, true, nil
}

func (c *memoryTrendCache) Set(_ context.Context, id string, p models.TrendPrediction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = p
	return nil
}

func (c *memoryTrendCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

type heldLocker struct{ held bool }

func (l *heldLocker) TryLock(context.Context) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() { l.held = false }, true, nil
}

var scoringNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newScoringFixture(t *testing.T, bookings ...models.Booking) (*DefaultScoreService, *testutil.ProviderStore) {
	t.Helper()
	providers := testutil.NewProviderStore(
		models.Provider{ID: "p1", Name: "Ada Plumbing"},
		models.Provider{ID: "p2", Name: "Bo Electric"},
	)
	store := testutil.NewBookingStore(bookings...)
	svc := NewDefaultScoreService(store, providers, zap.NewNop())
	svc.Now = testutil.NewClock(scoringNow).Now
	return svc, providers
}

func history(providerID string, jobs ...[3]string) []models.Booking {
	out := make([]models.Booking, 0, len(jobs))
	for i, j := range jobs {
		b := labelled(j[0], j[1], j[2])
		b.ID = providerID + "-b" + string(rune('a'+i))
		b.ProviderID = providerID
		b.CreatedAt = scoringNow.Add(time.Duration(i) * time.Hour)
		out = append(out, b)
	}
	return out
}

var (
	perfect = [3]string{models.CompletionCompleted, models.ArrivalOnTime, models.FeedbackPositive}
	poor    = [3]string{models.CompletionNotCompleted, models.ArrivalMissed, models.FeedbackNegative}
)

func TestComputeScore_NoBookingsIsZero(t *testing.T) {
	svc, _ := newScoringFixture(t)

	score, err := svc.ComputeScore(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestComputeScore_UnknownProvider(t *testing.T) {
	svc, _ := newScoringFixture(t)

	_, err := svc.ComputeScore(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestComputeScore_OnlyCountsOwnBookings(t *testing.T) {
	bookings := append(history("p1", perfect, perfect), history("p2", poor)...)
	svc, _ := newScoringFixture(t, bookings...)

	p1, err := svc.ComputeScore(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, p1)

	p2, err := svc.ComputeScore(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, 0, p2)
}

func TestUpdateProviderScore_Persists(t *testing.T) {
	svc, providers := newScoringFixture(t, history("p1", perfect, poor)...)
	cache := newMemoryTrendCache()
	svc.Cache = cache
	_ = cache.Set(context.Background(), "p1", models.TrendPrediction{Trend: models.TrendStable})

	score, err := svc.UpdateProviderScore(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, score)

	p, err := providers.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.ReliabilityScore)
	require.NotNil(t, p.LastScoreUpdate)
	assert.Equal(t, scoringNow, *p.LastScoreUpdate)

	_, ok, _ := cache.Get(context.Background(), "p1")
	assert.False(t, ok, "rewriting the score drops the cached trend")
}

func TestUpdateAllScores_CountsFailuresAndContinues(t *testing.T) {
	bookings := append(history("p1", perfect), history("p2", perfect)...)
	svc, providers := newScoringFixture(t, bookings...)
	providers.UpdateScoreErrs["p1"] = errors.New("write refused")

	summary, err := svc.UpdateAllScores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"p1"}, summary.FailedIDs)
	assert.False(t, summary.Skipped)

	p2, _ := providers.GetByID(context.Background(), "p2")
	assert.Equal(t, 100, p2.ReliabilityScore)
}

func TestUpdateAllScores_SkipsWhenLockHeld(t *testing.T) {
	svc, providers := newScoringFixture(t, history("p1", perfect)...)
	locker := &heldLocker{held: true}
	svc.Locker = locker

	summary, err := svc.UpdateAllScores(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Zero(t, summary.Updated)

	p1, _ := providers.GetByID(context.Background(), "p1")
	assert.Nil(t, p1.LastScoreUpdate)
}

func TestUpdateAllScores_ReleasesLock(t *testing.T) {
	svc, _ := newScoringFixture(t)
	locker := &heldLocker{}
	svc.Locker = locker

	_, err := svc.UpdateAllScores(context.Background())
	require.NoError(t, err)
	assert.False(t, locker.held)
}

func TestUpdateAllScores_StopsOnCancelledContext(t *testing.T) {
	svc, _ := newScoringFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.UpdateAllScores(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictTrend_FromBookingHistory(t *testing.T) {
	late := [3]string{models.CompletionCompleted, models.ArrivalLate, models.FeedbackPositive}
	svc, _ := newScoringFixture(t, history("p1", poor, late, perfect)...)

	p, err := svc.PredictTrend(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ProviderID)
	assert.Equal(t, models.TrendImproving, p.Trend)
	assert.Equal(t, 3, p.Observations)
}

func TestPredictTrend_InsufficientHistory(t *testing.T) {
	svc, _ := newScoringFixture(t, history("p1", perfect, perfect)...)

	p, err := svc.PredictTrend(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.TrendInsufficient, p.Trend)
	assert.Zero(t, p.Confidence)
}

func TestPredictTrend_UsesCache(t *testing.T) {
	svc, _ := newScoringFixture(t, history("p1", poor, perfect, perfect)...)
	cache := newMemoryTrendCache()
	svc.Cache = cache

	first, err := svc.PredictTrend(context.Background(), "p1")
	require.NoError(t, err)
	second, err := svc.PredictTrend(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestInvalidateTrend_NextReadRecomputes(t *testing.T) {
	svc, _ := newScoringFixture(t, history("p1", poor, perfect, perfect)...)
	ctx := context.Background()
	svc.InvalidateTrend(ctx, "p1")

	cache := newMemoryTrendCache()
	svc.Cache = cache
	_, err := svc.PredictTrend(ctx, "p1")
	require.NoError(t, err)

	svc.InvalidateTrend(ctx, "p1")
	_, err = svc.PredictTrend(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, cache.hits)
}

func TestPredictTrend_UnknownProvider(t *testing.T) {
	svc, _ := newScoringFixture(t)

	_, err := svc.PredictTrend(context.Background(), "ghost")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
