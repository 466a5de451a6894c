package billing

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/app/repository"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	FindBilling(ctx context.Context, userID string) (*models.ContractorBilling, error)
	CreateBilling(ctx context.Context, billing *models.ContractorBilling) error
	ToggleBillingPause(ctx context.Context, userID string) (*models.ContractorBilling, error)
	SetBillingPause(ctx context.Context, userID string, paused bool) (*models.ContractorBilling, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]models.ContractorSubscription, error)
	UpsertSubscription(ctx context.Context, sub *models.ContractorSubscription) error
	CreateTransactionIfNotExists(ctx context.Context, t *models.Transaction) (bool, error)
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id string, processingError string) error
}

type gormRepository struct {
	db            *gorm.DB
	users         repository.Gateway[models.User]
	billings      repository.Gateway[models.ContractorBilling]
	subscriptions repository.Gateway[models.ContractorSubscription]
	events        repository.Gateway[models.WebhookEvent]
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{
		db:            db,
		users:         repository.NewGateway[models.User](db),
		billings:      repository.NewGateway[models.ContractorBilling](db),
		subscriptions: repository.NewGateway[models.ContractorSubscription](db),
		events:        repository.NewGateway[models.WebhookEvent](db),
	}
}

func (r *gormRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	return r.users.Exists(ctx, userID)
}

func (r *gormRepository) FindBilling(ctx context.Context, userID string) (*models.ContractorBilling, error) {
	return r.billings.FindOne(ctx, repository.By("user_id", userID))
}

func (r *gormRepository) CreateBilling(ctx context.Context, billing *models.ContractorBilling) error {
	return r.billings.Create(ctx, billing)
}

// ToggleBillingPause flips is_paused with a single UPDATE so concurrent
// toggles never lose a flip, then reads the row back in the same transaction.
func (r *gormRepository) ToggleBillingPause(ctx context.Context, userID string) (*models.ContractorBilling, error) {
	var out models.ContractorBilling
	err := repository.InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.ContractorBilling{}).
			Where("user_id = ?", userID).
			Update("is_paused", gorm.Expr("NOT is_paused"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ?", userID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormRepository) SetBillingPause(ctx context.Context, userID string, paused bool) (*models.ContractorBilling, error) {
	var out models.ContractorBilling
	err := repository.InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&out).Error; err != nil {
			return err
		}
		if out.IsPaused == paused {
			return nil
		}
		if err := tx.Model(&out).Update("is_paused", paused).Error; err != nil {
			return err
		}
		out.IsPaused = paused
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormRepository) ListSubscriptionsByUser(ctx context.Context, userID string) ([]models.ContractorSubscription, error) {
	return r.subscriptions.FindMany(ctx, repository.Query{
		Where: map[string]any{"user_id": userID},
		Order: "created_at ASC",
	})
}

func (r *gormRepository) UpsertSubscription(ctx context.Context, sub *models.ContractorSubscription) error {
	return repository.InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "provider"},
				{Name: "provider_subscription_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id",
				"category",
				"status",
				"is_trial",
				"is_active",
				"current_period_end",
				"cancel_at_period_end",
				"updated_at",
			}),
		}).Create(sub).Error; err != nil {
			return err
		}

		// Ensure ID is populated after upsert.
		return tx.Where("provider = ? AND provider_subscription_id = ?", sub.Provider, sub.ProviderSubscriptionID).
			First(sub).Error
	})
}

func (r *gormRepository) CreateTransactionIfNotExists(ctx context.Context, t *models.Transaction) (bool, error) {
	var created bool
	err := repository.InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_ref"}},
			DoNothing: true,
		}).Create(t)
		created = res.RowsAffected > 0
		return res.Error
	})
	return created, err
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	var created bool
	var stored models.WebhookEvent
	err := repository.InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "provider"},
				{Name: "provider_event_id"},
			},
			DoNothing: true,
		}).Create(event)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return tx.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
			First(&stored).Error
	})
	if err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id string, processingError string) error {
	n, err := r.events.UpdateMany(ctx, repository.By("id", id), map[string]any{
		"processed_at":     time.Now(),
		"processing_error": processingError,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = r.events.FindByID(ctx, id)
	}
	return err
}
