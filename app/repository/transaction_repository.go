package repository

import (
	"context"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

type transactionRepository struct {
	Gateway[models.Transaction]
}

// NewTransactionRepository creates a new ledger repository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{Gateway: NewGateway[models.Transaction](db)}
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, error) {
	return r.FindMany(ctx, Query{Where: map[string]any{"user_id": userID}, Order: "created_at DESC", Offset: offset, Limit: limit})
}
