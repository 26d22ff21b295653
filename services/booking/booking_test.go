package booking

import (
	"context"
	"errors"
	"fmt"
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

type countingScores struct {
	mu          sync.Mutex
	calls       []string
	invalidated []string
	err         error
}

func (c *countingScores) UpdateProviderScore(_ context.Context, providerID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, providerID)
	return 0, c.err
}

func (c *countingScores) InvalidateTrend(_ context.Context, providerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, providerID)
}

func (c *countingScores) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invalidated)
}

func (c *countingScores) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var (
	customer  = models.Actor{ID: "c1"}
	stranger  = models.Actor{ID: "c2"}
	provider  = models.Actor{ID: "pu1", ProviderProfileID: "p1"}
	otherProv = models.Actor{ID: "pu2", ProviderProfileID: "p2"}
	admin     = models.Actor{ID: "a1", IsAdmin: true}
)

type fixture struct {
	svc      *DefaultBookingService
	store    *testutil.BookingStore
	scores   *countingScores
	notifier *testutil.RecordingNotifier
	clock    *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	providers := testutil.NewProviderStore(
		models.Provider{ID: "p1", UserID: "pu1", Name: "Ada Plumbing", Category: "plumbing", HourlyRate: 40, IsAvailable: true},
		models.Provider{ID: "p2", UserID: "pu2", Name: "Off Duty", Category: "cleaning", HourlyRate: 25, IsAvailable: false},
	)
	store := testutil.NewBookingStore()
	scores := &countingScores{}
	notifier := &testutil.RecordingNotifier{}
	clock := testutil.NewClock(time.Date(2024, 5, 1, 8, 3, 0, 0, time.UTC))

	svc := NewDefaultBookingService(store, providers, scores, notifier, zap.NewNop())
	svc.Now = clock.Now
	return &fixture{svc: svc, store: store, scores: scores, notifier: notifier, clock: clock}
}

func bookingInput(slot string) models.CreateBookingInput {
	return models.CreateBookingInput{
		ProviderID:    "p1",
		ServiceName:   "Fix leaking sink",
		Date:          "2024-05-01",
		TimeSlot:      slot,
		DurationHours: 2,
		Address:       "12 Elm Street",
	}
}

func (f *fixture) book(t *testing.T, slot string) *models.Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), customer, bookingInput(slot))
	require.NoError(t, err)
	return b
}

func statusPtr(s models.BookingStatus) *models.BookingStatus { return &s }
func workPtr(s models.WorkStatus) *models.WorkStatus          { return &s }

func TestCreateBooking_Defaults(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.WorkBooked, b.WorkStatus)
	assert.Equal(t, "c1", b.CustomerID)
	assert.Equal(t, 80.0, b.Pricing.TotalAmount)
	assert.Equal(t, "cash", b.Pricing.PaymentMethod)
	assert.Equal(t, "plumbing", b.Service.Category)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), b.Details.ScheduledAt)
	require.Len(t, b.Timeline, 1)
	assert.Equal(t, "customer", b.Timeline[0].ActorRole)

	created := f.notifier.OfType(models.NotifyBookingCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "pu1", created[0].UserID)
}

func TestCreateBooking_ConflictGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.book(t, "Morning")
	_, err := f.svc.UpdateStatus(ctx, first.ID, provider, models.StatusUpdateInput{Status: statusPtr(models.BookingConfirmed)})
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, stranger, bookingInput("Morning"))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeSlotConflict))

	afternoon, err := f.svc.CreateBooking(ctx, stranger, bookingInput("Afternoon"))
	require.NoError(t, err)
	assert.Equal(t, models.SlotAfternoon, afternoon.Details.TimeSlot)
}

func TestCreateBooking_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.book(t, "Evening")

	_, err := f.svc.UpdateStatus(ctx, first.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingCancelled)})
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, stranger, bookingInput("Evening"))
	assert.NoError(t, err)
}

func TestCreateBooking_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	const attempts = 10

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), models.Actor{ID: fmt.Sprintf("c%d", i+10)}, bookingInput("Morning"))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case utils.IsCode(err, utils.CodeSlotConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, models.Actor{}, bookingInput("Morning"))
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	in := bookingInput("Night")
	_, err = f.svc.CreateBooking(ctx, customer, in)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	in = bookingInput("Morning")
	in.Date = "01/05/2024"
	_, err = f.svc.CreateBooking(ctx, customer, in)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	in = bookingInput("Morning")
	in.ProviderID = "missing"
	_, err = f.svc.CreateBooking(ctx, customer, in)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	in = bookingInput("Morning")
	in.ProviderID = "p2"
	_, err = f.svc.CreateBooking(ctx, customer, in)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.CreateBooking(ctx, provider, bookingInput("Morning"))
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestHasConflict_IgnoresTimeOfDay(t *testing.T) {
	f := newFixture(t)
	f.book(t, "Morning")

	taken, err := f.svc.HasConflict(context.Background(), "p1", "2024-05-01T17:45:00Z", models.SlotMorning)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = f.svc.HasConflict(context.Background(), "p1", "2024-05-02", models.SlotMorning)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = f.svc.HasConflict(context.Background(), "p1", "2024-05-01", "Midnight")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestUpdateStatus_AppendsOneEntryWithDefaultNote(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")

	updated, err := f.svc.UpdateStatus(context.Background(), b.ID, provider, models.StatusUpdateInput{
		Status:     statusPtr(models.BookingConfirmed),
		WorkStatus: workPtr(models.WorkInProgress),
	})
	require.NoError(t, err)

	require.Len(t, updated.Timeline, 2)
	last := updated.Timeline[1]
	assert.Equal(t, "Status updated to confirmed", last.Note)
	assert.Equal(t, "pu1", last.Actor)
	assert.Equal(t, "provider", last.ActorRole)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Equal(t, models.WorkInProgress, updated.WorkStatus)
}

func TestUpdateStatus_ExplicitNoteAndWorkOnly(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")

	updated, err := f.svc.UpdateStatus(context.Background(), b.ID, provider, models.StatusUpdateInput{
		WorkStatus: workPtr(models.WorkInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Status updated to in-progress", updated.Timeline[1].Note)
	assert.Equal(t, models.BookingPending, updated.Status, "workStatus may lead status")

	updated, err = f.svc.UpdateStatus(context.Background(), b.ID, customer, models.StatusUpdateInput{
		Status: statusPtr(models.BookingConfirmed),
		Note:   "see you then",
	})
	require.NoError(t, err)
	require.Len(t, updated.Timeline, 3)
	assert.Equal(t, "see you then", updated.Timeline[2].Note)
}

func TestUpdateStatus_NoTransitionTable(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")

	_, err := f.svc.UpdateStatus(context.Background(), b.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingCancelled)})
	require.NoError(t, err)
	updated, err := f.svc.UpdateStatus(context.Background(), b.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingPending)})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, updated.Status)
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, b.ID, customer, models.StatusUpdateInput{Note: "nothing"})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.UpdateStatus(ctx, b.ID, customer, models.StatusUpdateInput{Status: statusPtr("done")})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.UpdateStatus(ctx, b.ID, customer, models.StatusUpdateInput{WorkStatus: workPtr("paused")})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.UpdateStatus(ctx, "missing", customer, models.StatusUpdateInput{Status: statusPtr(models.BookingConfirmed)})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestUpdateStatus_Authorization(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()
	in := models.StatusUpdateInput{Status: statusPtr(models.BookingConfirmed)}

	_, err := f.svc.UpdateStatus(ctx, b.ID, stranger, in)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	_, err = f.svc.UpdateStatus(ctx, b.ID, otherProv, in)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	for _, actor := range []models.Actor{customer, provider, admin} {
		_, err := f.svc.UpdateStatus(ctx, b.ID, actor, in)
		assert.NoError(t, err, actor.Role())
	}

	stored, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Timeline, 4, "rejected calls append nothing")
}

func TestUpdateStatus_ConcurrentCallsLoseNoEntries(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	const calls = 25

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.UpdateStatus(context.Background(), b.ID, provider, models.StatusUpdateInput{
				WorkStatus: workPtr(models.WorkInProgress),
				Note:       fmt.Sprintf("tick %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Timeline, calls+1)
	assert.Equal(t, calls, stored.Version)
}

func TestUpdateStatus_ConcurrentAcrossInstancesRetriesOnVersion(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")

	// A second process sharing the store but not the in-process lock.
	other := NewDefaultBookingService(f.store, f.svc.Providers, nil, nil, zap.NewNop())
	other.Now = f.clock.Now
	f.svc.MaxRetries = 200
	other.MaxRetries = 200

	const perInstance = 15
	var wg sync.WaitGroup
	for _, svc := range []*DefaultBookingService{f.svc, other} {
		for i := 0; i < perInstance; i++ {
			wg.Add(1)
			go func(svc *DefaultBookingService) {
				defer wg.Done()
				_, err := svc.UpdateStatus(context.Background(), b.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingConfirmed)})
				assert.NoError(t, err)
			}(svc)
		}
	}
	wg.Wait()

	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Timeline, 2*perInstance+1)
}

func TestUpdateStatus_CompletionTriggersScoreAndLabels(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()

	started, err := f.svc.UpdateStatus(ctx, b.ID, provider, models.StatusUpdateInput{WorkStatus: workPtr(models.WorkStarted)})
	require.NoError(t, err)
	require.NotNil(t, started.ActualArrival)
	assert.Equal(t, models.ArrivalOnTime, started.ArrivalStatus)
	assert.Equal(t, 0, f.scores.Calls())

	done, err := f.svc.UpdateStatus(ctx, b.ID, provider, models.StatusUpdateInput{WorkStatus: workPtr(models.WorkCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.CompletionPartial, done.CompletionStatus)
	assert.Equal(t, 1, f.scores.Calls())
	assert.Empty(t, f.notifier.OfType(models.NotifyServiceCompleted))

	confirmed, err := f.svc.UpdateStatus(ctx, b.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.CompletionCompleted, confirmed.CompletionStatus)
	assert.Equal(t, 2, f.scores.Calls())
	assert.Len(t, f.notifier.OfType(models.NotifyServiceCompleted), 1)
}

func TestUpdateStatus_ScoreFailureDoesNotPropagate(t *testing.T) {
	f := newFixture(t)
	f.scores.err = errors.New("score engine down")
	b := f.book(t, "Morning")

	updated, err := f.svc.UpdateStatus(context.Background(), b.ID, customer, models.StatusUpdateInput{Status: statusPtr(models.BookingCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, updated.Status)
	assert.Equal(t, 1, f.scores.Calls())

	stored, _ := f.store.GetByID(context.Background(), b.ID)
	assert.Equal(t, models.BookingCompleted, stored.Status)
}

func TestVerify_AdminOnlyAndStatusUntouched(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()
	in := models.VerificationInput{IsVerified: true, Notes: "checked photos", WorkQualityVerified: true}

	_, err := f.svc.Verify(ctx, b.ID, customer, in)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	verified, err := f.svc.Verify(ctx, b.ID, admin, in)
	require.NoError(t, err)
	assert.True(t, verified.AdminVerification.IsVerified)
	assert.True(t, verified.AdminVerification.WorkQualityVerified)
	assert.False(t, verified.AdminVerification.CustomerVerified)
	assert.Equal(t, "a1", verified.AdminVerification.VerifiedBy)
	require.NotNil(t, verified.AdminVerification.VerifiedAt)
	assert.Equal(t, models.BookingPending, verified.Status)
	assert.Equal(t, models.WorkBooked, verified.WorkStatus)
	require.Len(t, verified.Timeline, 2)
	assert.Equal(t, "admin", verified.Timeline[1].ActorRole)
}

func TestRecordArrival(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()
	late := time.Date(2024, 5, 1, 8, 20, 0, 0, time.UTC)

	_, err := f.svc.RecordArrival(ctx, b.ID, customer, models.ArrivalInput{ArrivedAt: &late})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	updated, err := f.svc.RecordArrival(ctx, b.ID, provider, models.ArrivalInput{ArrivedAt: &late})
	require.NoError(t, err)
	assert.Equal(t, models.ArrivalLate, updated.ArrivalStatus)
	assert.Equal(t, late, *updated.ActualArrival)

	f.clock.Set(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	updated, err = f.svc.RecordArrival(ctx, b.ID, admin, models.ArrivalInput{})
	require.NoError(t, err)
	assert.Equal(t, models.ArrivalMissed, updated.ArrivalStatus)
}

func TestTrendInvalidatedWhenHistoryChangesWithoutScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, "Morning")
	assert.Equal(t, 1, f.scores.Invalidations())

	_, err := f.svc.RecordArrival(ctx, b.ID, provider, models.ArrivalInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.scores.Invalidations())

	_, err = f.svc.UpdateStatus(ctx, b.ID, provider, models.StatusUpdateInput{Status: statusPtr(models.BookingConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, 3, f.scores.Invalidations())
	assert.Zero(t, f.scores.Calls())
}

func TestSubmitReview_OncePerBooking(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, b.ID, provider, models.RatingInput{Rating: 5})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	reviewed, err := f.svc.SubmitReview(ctx, b.ID, customer, models.RatingInput{Rating: 5, Text: "great"})
	require.NoError(t, err)
	require.NotNil(t, reviewed.CustomerRating)
	assert.Equal(t, 5, reviewed.CustomerRating.Rating)
	assert.Equal(t, models.FeedbackPositive, reviewed.FeedbackStatus)
	assert.Equal(t, 1, f.scores.Calls())

	received := f.notifier.OfType(models.NotifyReviewReceived)
	require.Len(t, received, 1)
	assert.Equal(t, "pu1", received[0].UserID)

	_, err = f.svc.SubmitReview(ctx, b.ID, customer, models.RatingInput{Rating: 1})
	assert.True(t, utils.IsCode(err, utils.CodeDuplicateReview))

	_, err = f.svc.SubmitReview(ctx, b.ID, customer, models.RatingInput{Rating: 9})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestSubmitProviderRating(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()

	_, err := f.svc.SubmitProviderRating(ctx, b.ID, customer, models.RatingInput{Rating: 4})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	rated, err := f.svc.SubmitProviderRating(ctx, b.ID, provider, models.RatingInput{Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, rated.ProviderRating)
	assert.Empty(t, rated.FeedbackStatus)
	assert.Equal(t, 0, f.scores.Calls())

	_, err = f.svc.SubmitProviderRating(ctx, b.ID, provider, models.RatingInput{Rating: 2})
	assert.True(t, utils.IsCode(err, utils.CodeDuplicateReview))
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Morning")
	ctx := context.Background()

	_, err := f.svc.GetBooking(ctx, b.ID, stranger)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	got, err := f.svc.GetBooking(ctx, b.ID, provider)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	mine, err := f.svc.ListForCustomer(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.ListForProvider(ctx, "p1", otherProv)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	theirs, err := f.svc.ListForProvider(ctx, "p1", admin)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
