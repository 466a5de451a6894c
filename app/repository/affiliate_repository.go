package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

type affiliateRepository struct {
	Gateway[models.Affiliate]
	commissions Gateway[models.Commission]
	db          *gorm.DB
}

// NewAffiliateRepository creates a new affiliate repository instance
func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{
		Gateway:     NewGateway[models.Affiliate](db),
		commissions: NewGateway[models.Commission](db),
		db:          db,
	}
}

func (r *affiliateRepository) AddCommission(ctx context.Context, c *models.Commission) error {
	return r.commissions.Create(ctx, c)
}

func (r *affiliateRepository) ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error) {
	return r.commissions.FindMany(ctx, Query{Where: map[string]any{"affiliate_id": affiliateID}, Order: "created_at DESC"})
}

func (r *affiliateRepository) CommissionTotals(ctx context.Context, affiliateID string) (CommissionTotalsResult, error) {
	return RunAggregate[CommissionTotalsResult](ctx, r.db, CommissionTotals{AffiliateID: affiliateID})
}

// PayOutstanding marks every unpaid commission of the affiliate as paid
func (r *affiliateRepository) PayOutstanding(ctx context.Context, affiliateID string) (int64, error) {
	return r.commissions.UpdateMany(ctx,
		Query{Where: map[string]any{"affiliate_id": affiliateID, "is_paid": false}},
		map[string]any{"is_paid": true, "paid_at": time.Now()},
	)
}
