package repository

import (
	"context"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

// leadRepository implements the LeadRepository interface
type leadRepository struct {
	Gateway[models.Lead]
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository instance
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{Gateway: NewGateway[models.Lead](db), db: db}
}

// List returns leads matching the filter, newest first
func (r *leadRepository) List(ctx context.Context, f LeadFilter) ([]models.Lead, error) {
	where := map[string]any{}
	if f.HomeownerID != "" {
		where["homeowner_id"] = f.HomeownerID
	}
	if f.Status != "" {
		where["status"] = f.Status
	}
	switch {
	case f.Category != "":
		where["category"] = f.Category
	case len(f.Categories) > 0:
		where["category"] = f.Categories
	}
	return r.FindMany(ctx, Query{Where: where, Order: "created_at DESC", Offset: f.Offset, Limit: f.Limit})
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	n, err := r.UpdateMany(ctx, By("id", id), map[string]any{"status": status})
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows when the value did not change.
		_, err = r.FindByID(ctx, id)
	}
	return err
}

// DeleteWithThreads removes the lead together with its threads and their
// messages, children first, in one transaction.
func (r *leadRepository) DeleteWithThreads(ctx context.Context, id string) error {
	return InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		var threadIDs []string
		if err := tx.Model(&models.Thread{}).Where("lead_id = ?", id).Pluck("id", &threadIDs).Error; err != nil {
			return classify(err)
		}
		if len(threadIDs) > 0 {
			if _, err := NewGateway[models.Message](tx).DeleteMany(ctx, By("thread_id", threadIDs)); err != nil {
				return err
			}
			if _, err := NewGateway[models.Thread](tx).DeleteMany(ctx, By("lead_id", id)); err != nil {
				return err
			}
		}
		return NewGateway[models.Lead](tx).Delete(ctx, id)
	})
}
