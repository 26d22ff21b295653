package servicerequest

import (
	"context"
	"testing"
	"time"

	"hirewise/models"
	"hirewise/testutil"
	"hirewise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	customer = models.Actor{ID: "c1"}
	provider = models.Actor{ID: "pu1", ProviderProfileID: "p1"}
	stranger = models.Actor{ID: "x"}
)

func newService(t *testing.T) (*DefaultServiceRequestService, *testutil.RecordingNotifier, *testutil.Clock) {
	t.Helper()
	providers := testutil.NewProviderStore(models.Provider{ID: "p1", UserID: "pu1", Name: "Ada", IsAvailable: true})
	notifier := &testutil.RecordingNotifier{}
	clock := testutil.NewClock(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))
	svc := NewDefaultServiceRequestService(testutil.NewServiceRequestStore(), providers, notifier, zap.NewNop())
	svc.Now = clock.Now
	return svc, notifier, clock
}

func create(t *testing.T, svc *DefaultServiceRequestService) *models.ServiceRequest {
	t.Helper()
	req, err := svc.Create(context.Background(), customer, models.CreateServiceRequestInput{
		ProviderID:  "p1",
		Description: "Replace bathroom tiles",
		ScheduledAt: time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC),
		Address:     models.AddressSnapshot{Street: "1 Main", City: "Nairobi"},
	})
	require.NoError(t, err)
	return req
}

func TestCreate(t *testing.T) {
	svc, _, clock := newService(t)
	req := create(t, svc)

	assert.Equal(t, models.RequestRequested, req.Status)
	require.NotNil(t, req.Timestamps.RequestedAt)
	assert.Equal(t, clock.Now(), *req.Timestamps.RequestedAt)
	assert.Nil(t, req.Timestamps.AcceptedAt)

	_, err := svc.Create(context.Background(), customer, models.CreateServiceRequestInput{
		ProviderID: "ghost", Description: "x", ScheduledAt: clock.Now(),
	})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.Create(context.Background(), customer, models.CreateServiceRequestInput{ProviderID: "p1"})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestSendEstimate(t *testing.T) {
	svc, _, _ := newService(t)
	req := create(t, svc)
	ctx := context.Background()

	_, err := svc.SendEstimate(ctx, req.ID, customer, 100)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.SendEstimate(ctx, req.ID, provider, 0)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	quoted, err := svc.SendEstimate(ctx, req.ID, provider, 150)
	require.NoError(t, err)
	assert.Equal(t, models.RequestQuoteSent, quoted.Status)
	assert.Equal(t, 150.0, quoted.EstimatedCost)
	assert.NotNil(t, quoted.Timestamps.QuotedAt)
}

func TestAdvance_StampsEachTransition(t *testing.T) {
	svc, notifier, clock := newService(t)
	req := create(t, svc)
	ctx := context.Background()

	accepted, err := svc.Advance(ctx, req.ID, customer, models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	require.NotNil(t, accepted.Timestamps.AcceptedAt)
	assert.Nil(t, accepted.Timestamps.StartedAt)

	clock.Advance(time.Hour)
	started, err := svc.Advance(ctx, req.ID, provider, models.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, models.RequestInProgress, started.Status)
	assert.Equal(t, clock.Now(), *started.Timestamps.StartedAt)
	assert.Equal(t, req.Description, started.Description)

	clock.Advance(time.Hour)
	done, err := svc.Advance(ctx, req.ID, provider, models.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, done.Status)
	assert.Equal(t, clock.Now(), *done.Timestamps.CompletedAt)
	assert.Nil(t, done.Timestamps.CancelledAt)

	completed := notifier.OfType(models.NotifyServiceCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, "c1", completed[0].UserID)
}

func TestAdvance_RoleGates(t *testing.T) {
	svc, _, _ := newService(t)
	req := create(t, svc)
	ctx := context.Background()

	_, err := svc.Advance(ctx, req.ID, provider, models.ActionAccept)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	_, err = svc.Advance(ctx, req.ID, customer, models.ActionComplete)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	_, err = svc.Advance(ctx, req.ID, stranger, models.ActionCancel)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	_, err = svc.Advance(ctx, req.ID, customer, "reopen")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	cancelled, err := svc.Advance(ctx, req.ID, customer, models.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.Timestamps.CancelledAt)
}

func TestGetAndList(t *testing.T) {
	svc, _, _ := newService(t)
	req := create(t, svc)
	ctx := context.Background()

	_, err := svc.Get(ctx, req.ID, stranger)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	_, err = svc.Get(ctx, "missing", customer)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	got, err := svc.Get(ctx, req.ID, provider)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	mine, err := svc.ListForCustomer(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListForProvider(ctx, "p1", provider)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	_, err = svc.ListForProvider(ctx, "p1", customer)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
