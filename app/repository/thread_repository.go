package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

// threadRepository implements the ThreadRepository interface
type threadRepository struct {
	Gateway[models.Thread]
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository instance
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{Gateway: NewGateway[models.Thread](db), db: db}
}

// ListByUser returns every thread the user takes part in, most recent activity first
func (r *threadRepository) ListByUser(ctx context.Context, userID string) ([]models.Thread, error) {
	var threads []models.Thread
	err := r.db.WithContext(ctx).
		Where("contractor_id = ? OR homeowner_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&threads).Error
	return threads, classify(err)
}

// AddMessage stores the message and bumps the thread's activity timestamp together
func (r *threadRepository) AddMessage(ctx context.Context, threadID string, msg *models.Message) error {
	msg.ThreadID = &threadID
	msg.ConversationID = nil
	return InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := NewGateway[models.Message](tx).Create(ctx, msg); err != nil {
			return err
		}
		_, err := NewGateway[models.Thread](tx).UpdateMany(ctx, By("id", threadID), map[string]any{"last_message_at": time.Now()})
		return err
	})
}

func (r *threadRepository) ListMessages(ctx context.Context, threadID string, offset, limit int) ([]models.Message, error) {
	return NewGateway[models.Message](r.db).FindMany(ctx, Query{
		Where:  map[string]any{"thread_id": threadID},
		Order:  "created_at ASC",
		Offset: offset,
		Limit:  limit,
	})
}

// DeleteWithMessages removes the messages first and then the thread, in one
// transaction. A failed parent delete rolls the message deletes back.
func (r *threadRepository) DeleteWithMessages(ctx context.Context, id string) error {
	return InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if _, err := NewGateway[models.Message](tx).DeleteMany(ctx, By("thread_id", id)); err != nil {
			return err
		}
		return NewGateway[models.Thread](tx).Delete(ctx, id)
	})
}
