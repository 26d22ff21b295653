package review

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

func seedRequest(t *testing.T, store *testutil.ServiceRequestStore, id string, status models.ServiceRequestStatus) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &models.ServiceRequest{
		ID:         id,
		CustomerID: "c1",
		ProviderID: "p1",
		Status:     status,
	}))
}

func newReviewService(t *testing.T) (*DefaultReviewService, *testutil.ServiceRequestStore, *testutil.RecordingNotifier) {
	t.Helper()
	requests := testutil.NewServiceRequestStore()
	notifier := &testutil.RecordingNotifier{}
	providers := testutil.NewProviderStore(models.Provider{ID: "p1", UserID: "pu1"})
	svc := NewDefaultReviewService(testutil.NewReviewStore(), requests, providers, notifier, zap.NewNop())
	svc.Now = testutil.NewClock(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)).Now
	return svc, requests, notifier
}

func TestSubmitServiceReview(t *testing.T) {
	svc, requests, notifier := newReviewService(t)
	seedRequest(t, requests, "sr1", models.RequestCompleted)
	ctx := context.Background()

	r, err := svc.SubmitServiceReview(ctx, "sr1", models.Actor{ID: "c1"}, models.ReviewInput{
		Rating:  4,
		Comment: "tidy work",
		Photos:  []string{"https://cdn.example.com/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", r.ProviderID)
	assert.Equal(t, 4, r.Rating)

	sent := notifier.OfType(models.NotifyReviewReceived)
	require.Len(t, sent, 1)
	assert.Equal(t, "pu1", sent[0].UserID)

	_, err = svc.SubmitServiceReview(ctx, "sr1", models.Actor{ID: "c1"}, models.ReviewInput{Rating: 1})
	assert.True(t, utils.IsCode(err, utils.CodeDuplicateReview))

	list, err := svc.ListForProvider(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitServiceReview_Rejections(t *testing.T) {
	svc, requests, _ := newReviewService(t)
	seedRequest(t, requests, "open", models.RequestInProgress)
	seedRequest(t, requests, "done", models.RequestCompleted)
	ctx := context.Background()

	_, err := svc.SubmitServiceReview(ctx, "open", models.Actor{ID: "c1"}, models.ReviewInput{Rating: 5})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = svc.SubmitServiceReview(ctx, "done", models.Actor{ID: "someone"}, models.ReviewInput{Rating: 5})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.SubmitServiceReview(ctx, "missing", models.Actor{ID: "c1"}, models.ReviewInput{Rating: 5})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.SubmitServiceReview(ctx, "done", models.Actor{ID: "c1"}, models.ReviewInput{Rating: 0})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = svc.SubmitServiceReview(ctx, "done", models.Actor{ID: "c1"}, models.ReviewInput{Rating: 3, Photos: []string{"not a url"}})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}
