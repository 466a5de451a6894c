package repository

import (
	"context"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

type reviewRepository struct {
	Gateway[models.Review]
	db *gorm.DB
}

// NewReviewRepository creates a new review repository instance
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{Gateway: NewGateway[models.Review](db), db: db}
}

func (r *reviewRepository) ListByContractor(ctx context.Context, contractorID string, offset, limit int) ([]models.Review, error) {
	return r.FindMany(ctx, Query{Where: map[string]any{"contractor_id": contractorID}, Order: "created_at DESC", Offset: offset, Limit: limit})
}

func (r *reviewRepository) RatingSummary(ctx context.Context, contractorID string) (RatingSummaryResult, error) {
	return RunAggregate[RatingSummaryResult](ctx, r.db, RatingSummary{ContractorID: contractorID})
}
