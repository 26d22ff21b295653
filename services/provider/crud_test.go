package provider

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

func newProviderService(t *testing.T) (*DefaultProviderService, *testutil.ProviderStore, *testutil.BookingStore) {
	t.Helper()
	providers := testutil.NewProviderStore()
	bookings := testutil.NewBookingStore()
	svc := NewDefaultProviderService(providers, bookings, zap.NewNop())
	svc.Now = testutil.NewClock(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)).Now
	return svc, providers, bookings
}

func TestCreateProvider(t *testing.T) {
	svc, _, _ := newProviderService(t)
	ctx := context.Background()

	p, err := svc.CreateProvider(ctx, models.Actor{ID: "u1"}, models.CreateProviderInput{
		Name: "Ada Plumbing", Category: "plumbing", HourlyRate: 35,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.IsAvailable)
	assert.Zero(t, p.ReliabilityScore)
	assert.Nil(t, p.LastScoreUpdate)

	_, err = svc.CreateProvider(ctx, models.Actor{ID: "u1", ProviderProfileID: p.ID}, models.CreateProviderInput{Name: "Again", Category: "x"})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = svc.CreateProvider(ctx, models.Actor{ID: "u2"}, models.CreateProviderInput{Name: "A", Category: "x"})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestUpdateProfile_OwnerOnlyAndScoreUntouched(t *testing.T) {
	svc, providers, _ := newProviderService(t)
	ctx := context.Background()
	scored := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, providers.Create(ctx, &models.Provider{
		ID: "p1", UserID: "u1", Name: "Ada", Category: "plumbing", ReliabilityScore: 77, LastScoreUpdate: &scored,
	}))

	rate := 50.0
	off := false
	_, err := svc.UpdateProfile(ctx, "p1", models.Actor{ID: "u2"}, models.ProviderUpdateRequest{HourlyRate: &rate})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	updated, err := svc.UpdateProfile(ctx, "p1", models.Actor{ID: "u1", ProviderProfileID: "p1"}, models.ProviderUpdateRequest{
		HourlyRate:  &rate,
		IsAvailable: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.HourlyRate)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, 77, updated.ReliabilityScore)
	assert.Equal(t, scored, *updated.LastScoreUpdate)

	_, err = svc.UpdateProfile(ctx, "ghost", models.Actor{IsAdmin: true}, models.ProviderUpdateRequest{})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDeleteProvider_RefusedWithActiveBookings(t *testing.T) {
	svc, providers, bookings := newProviderService(t)
	ctx := context.Background()
	require.NoError(t, providers.Create(ctx, &models.Provider{ID: "p1", UserID: "u1", Name: "Ada"}))
	require.NoError(t, bookings.Create(ctx, &models.Booking{
		ID: "b1", ProviderID: "p1", Status: models.BookingConfirmed,
		Details: models.BookingDetails{Date: "2024-04-02", TimeSlot: models.SlotMorning},
	}))
	owner := models.Actor{ID: "u1", ProviderProfileID: "p1"}

	err := svc.DeleteProvider(ctx, "p1", models.Actor{ID: "u9"})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	err = svc.DeleteProvider(ctx, "p1", owner)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	b, _ := bookings.GetByID(ctx, "b1")
	b.Status = models.BookingCompleted
	require.NoError(t, bookings.ReplaceWithVersion(ctx, b, b.Version))

	require.NoError(t, svc.DeleteProvider(ctx, "p1", owner))
	_, err = svc.GetProvider(ctx, "p1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestListProviders(t *testing.T) {
	svc, providers, _ := newProviderService(t)
	ctx := context.Background()
	require.NoError(t, providers.Create(ctx, &models.Provider{ID: "p1", Name: "Ada"}))
	require.NoError(t, providers.Create(ctx, &models.Provider{ID: "p2", Name: "Bo"}))

	all, err := svc.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
