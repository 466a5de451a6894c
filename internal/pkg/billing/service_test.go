package billing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/testdb"
)

func TestGetOrCreateContractorBillingCreatesOnce(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	first, err := svc.GetOrCreateContractorBilling(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, first.IsPaused)
	assert.Equal(t, "u1", first.UserID)

	second, err := svc.GetOrCreateContractorBilling(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, db.Model(&models.ContractorBilling{}).Where("user_id = ?", "u1").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestGetOrCreateContractorBillingValidatesUser(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromDB(testdb.New(t))

	_, err := svc.GetOrCreateContractorBilling(ctx, "  ")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.GetOrCreateContractorBilling(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetOrCreateContractorBillingConcurrentFirstCalls(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	const callers = 12
	var wg sync.WaitGroup
	ids := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := svc.GetOrCreateContractorBilling(ctx, "u1")
			errs[i] = err
			if err == nil {
				ids[i] = b.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var n int64
	require.NoError(t, db.Model(&models.ContractorBilling{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestToggleBillingPauseNeverCreates(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	m := metrics.New(nil)
	svc := NewServiceFromDB(db, WithMetrics(m))

	_, err := svc.ToggleBillingPause(ctx, "u1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&models.ContractorBilling{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingToggles.WithLabelValues(metrics.ResultNotFound)))

	_, err = svc.ToggleBillingPause(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestToggleBillingPauseTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	_, err := svc.GetOrCreateContractorBilling(ctx, "u1")
	require.NoError(t, err)

	paused, err := svc.ToggleBillingPause(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, paused.IsPaused)

	resumed, err := svc.ToggleBillingPause(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, resumed.IsPaused)
}

func TestToggleBillingPauseConcurrentFlipsAreNotLost(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)
	_, err := svc.GetOrCreateContractorBilling(ctx, "u1")
	require.NoError(t, err)

	const togglers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	pausedSeen := 0
	for i := 0; i < togglers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := svc.ToggleBillingPause(ctx, "u1")
			if !assert.NoError(t, err) {
				return
			}
			if b.IsPaused {
				mu.Lock()
				pausedSeen++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := svc.GetOrCreateContractorBilling(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, final.IsPaused)
	assert.Equal(t, togglers/2, pausedSeen)
}

func TestSetBillingPauseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	b, err := svc.SetBillingPause(ctx, "u1", true)
	require.NoError(t, err)
	assert.True(t, b.IsPaused)

	b, err = svc.SetBillingPause(ctx, "u1", true)
	require.NoError(t, err)
	assert.True(t, b.IsPaused)

	b, err = svc.SetBillingPause(ctx, "u1", false)
	require.NoError(t, err)
	assert.False(t, b.IsPaused)
}

func TestSyncSubscriptionUpserts(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	in := NormalizedSubscription{
		UserID:                 "u1",
		Provider:               "Stripe",
		ProviderSubscriptionID: "sub_123",
		Category:               "Plumbing",
		Status:                 "trialing",
	}
	first, err := svc.SyncSubscription(ctx, in)
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.True(t, first.IsTrial)
	assert.Equal(t, "plumbing", first.Category)
	assert.Equal(t, "stripe", first.Provider)

	in.Status = "canceled"
	second, err := svc.SyncSubscription(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsActive)
	assert.Equal(t, models.SubscriptionStatusCanceled, second.Status)

	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].IsActive)

	_, err = svc.SyncSubscription(ctx, NormalizedSubscription{UserID: "ghost", ProviderSubscriptionID: "sub_x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRecordWebhookEventIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	svc := NewServiceFromDB(db)

	in := WebhookEventInput{Provider: "stripe", ProviderEventID: "evt_1", EventType: "invoice.paid", PayloadJSON: `{"a":1}`}
	created, first, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)

	created, again, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	require.NoError(t, svc.MarkWebhookProcessed(ctx, first.ID, errors.New("sync failed")))
	var stored models.WebhookEvent
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.NotNil(t, stored.ProcessedAt)
	assert.Equal(t, "sync failed", stored.ProcessingError)

	assert.ErrorIs(t, svc.MarkWebhookProcessed(ctx, "missing", nil), apperror.ErrNotFound)
}

func TestRecordWebhookEventHashesMissingID(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromDB(testdb.New(t))

	in := WebhookEventInput{EventType: "subscription.updated", PayloadJSON: `{"b":2}`}
	_, event, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.Contains(t, event.ProviderEventID, "hash:")

	created, _, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRecordChargeIgnoresReplays(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	svc := NewServiceFromDB(db)

	charge := Charge{UserID: "u1", Amount: 49.99, ProviderRef: "stripe:evt_9"}
	created, err := svc.RecordCharge(ctx, charge)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.RecordCharge(ctx, charge)
	require.NoError(t, err)
	assert.False(t, created)

	var tx models.Transaction
	require.NoError(t, db.First(&tx, "provider_ref = ?", "stripe:evt_9").Error)
	assert.Equal(t, "USD", tx.Currency)
	assert.InDelta(t, 49.99, tx.Amount, 0.001)
}

// racingRepo reports a lost insert race a configurable number of times.
type racingRepo struct {
	Repository
	conflicts int
	created   bool
}

func (r *racingRepo) UserExists(context.Context, string) (bool, error) { return true, nil }

func (r *racingRepo) FindBilling(_ context.Context, userID string) (*models.ContractorBilling, error) {
	if r.created {
		return &models.ContractorBilling{Base: models.Base{ID: "winner"}, UserID: userID}, nil
	}
	return nil, apperror.NotFound("no billing")
}

func (r *racingRepo) CreateBilling(context.Context, *models.ContractorBilling) error {
	if r.conflicts > 0 {
		r.conflicts--
		if r.conflicts == 0 {
			r.created = true
		}
		return apperror.Conflict("duplicate user_id")
	}
	return errors.New("unexpected create")
}

func TestGetOrCreateReReadsAfterConflict(t *testing.T) {
	m := metrics.New(nil)
	svc := NewService(&racingRepo{conflicts: 1}, WithMetrics(m))

	b, err := svc.GetOrCreateContractorBilling(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "winner", b.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingCreateRetries))
}

func TestGetOrCreateGivesUpAfterBoundedAttempts(t *testing.T) {
	svc := NewService(&racingRepo{conflicts: maxCreateAttempts + 1})

	_, err := svc.GetOrCreateContractorBilling(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)
	assert.Equal(t, fiber.StatusInternalServerError, apperror.HTTPStatus(err))
}

func TestSyncSubscriptionWithoutStatusGrantsNothing(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "u1", models.ROLE_CONTRACTOR)
	svc := NewServiceFromDB(db)

	sub, err := svc.SyncSubscription(ctx, NormalizedSubscription{UserID: "u1", ProviderSubscriptionID: "sub_1", Category: "plumbing"})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusIncomplete, sub.Status)
	assert.False(t, sub.IsActive)

	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].IsActive)
}
