package repository

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/testdb"
)

func newMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestCommissionTotalsCoercesDecimalStrings(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_paid, COALESCE(SUM(amount), 0) AS total FROM commissions WHERE affiliate_id = ? GROUP BY is_paid")).
		WithArgs("aff-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_paid", "total"}).
			AddRow(int64(1), []byte("120.50")).
			AddRow(int64(0), "35.25"))

	got, err := RunAggregate[CommissionTotalsResult](context.Background(), db, CommissionTotals{AffiliateID: "aff-1"})
	require.NoError(t, err)
	assert.InDelta(t, 120.50, got.Paid, 0.001)
	assert.InDelta(t, 35.25, got.Unpaid, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionTotalsConnectionErrorIsClassified(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT is_paid").
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, err := RunAggregate[CommissionTotalsResult](context.Background(), db, CommissionTotals{AffiliateID: "aff-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConnection)
	assert.Contains(t, err.Error(), "commission_totals")
}

func TestCommissionTotalsAndPayout(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	repo := NewAffiliateRepository(db)

	aff := &models.Affiliate{UserID: "u1", Code: "REF123"}
	require.NoError(t, repo.Create(ctx, aff))
	for _, amount := range []float64{10, 15.5, 4.5} {
		require.NoError(t, repo.AddCommission(ctx, &models.Commission{AffiliateID: aff.ID, Amount: amount}))
	}

	totals, err := repo.CommissionTotals(ctx, aff.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0, totals.Paid, 0.001)
	assert.InDelta(t, 30, totals.Unpaid, 0.001)

	paid, err := repo.PayOutstanding(ctx, aff.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), paid)

	totals, err = repo.CommissionTotals(ctx, aff.ID)
	require.NoError(t, err)
	assert.InDelta(t, 30, totals.Paid, 0.001)
	assert.InDelta(t, 0, totals.Unpaid, 0.001)

	empty, err := repo.CommissionTotals(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, CommissionTotalsResult{}, empty)
}

func TestRatingSummaryAndPlatformStats(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.SeedUser(t, db, "c1", models.ROLE_CONTRACTOR)
	testdb.SeedUser(t, db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, db, "h2", models.ROLE_HOMEOWNER)
	testdb.SeedSubscription(t, db, "c1", "plumbing", true, false)

	reviews := NewReviewRepository(db)
	require.NoError(t, reviews.Create(ctx, &models.Review{ContractorID: "c1", HomeownerID: "h1", LeadID: "l1", Rating: 5}))
	require.NoError(t, reviews.Create(ctx, &models.Review{ContractorID: "c1", HomeownerID: "h2", LeadID: "l2", Rating: 4}))

	summary, err := reviews.RatingSummary(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	stats, err := NewStatsRepository(db).PlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.UsersByRole[models.ROLE_HOMEOWNER])
	assert.Equal(t, int64(1), stats.UsersByRole[models.ROLE_CONTRACTOR])
	assert.Equal(t, int64(1), stats.ActiveSubscriptions)
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{in: nil, want: 0},
		{in: int64(3), want: 3},
		{in: 2.5, want: 2.5},
		{in: []byte("7.75"), want: 7.75},
		{in: " 1.5 ", want: 1.5},
		{in: "", want: 0},
	}
	for _, tt := range tests {
		got, err := toFloat(tt.in)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 0.0001)
	}

	_, err := toFloat(struct{}{})
	assert.Error(t, err)
	_, err = toFloat("abc")
	assert.Error(t, err)
}
