package repository

import (
	"context"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

type notificationRepository struct {
	Gateway[models.Notification]
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{Gateway: NewGateway[models.Notification](db)}
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]models.Notification, error) {
	where := map[string]any{"user_id": userID}
	if unreadOnly {
		where["is_read"] = false
	}
	return r.FindMany(ctx, Query{Where: where, Order: "created_at DESC", Offset: offset, Limit: limit})
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.Count(ctx, Query{Where: map[string]any{"user_id": userID, "is_read": false}})
}

// MarkRead flags one notification as read; NotFound for unknown ids
func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	n, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	_, err = r.UpdateMany(ctx, By("id", id), map[string]any{"is_read": true})
	return err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return r.UpdateMany(ctx, Query{Where: map[string]any{"user_id": userID, "is_read": false}}, map[string]any{"is_read": true})
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.DeleteMany(ctx, By("user_id", userID))
}
