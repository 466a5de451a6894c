package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"gorm.io/gorm"
)

// conversationRepository implements the ConversationRepository interface
type conversationRepository struct {
	Gateway[models.Conversation]
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{Gateway: NewGateway[models.Conversation](db), db: db}
}

// FindOrCreate returns the conversation for the pair, creating it on first
// use. A concurrent creator losing on the unique pair index re-reads the row.
func (r *conversationRepository) FindOrCreate(ctx context.Context, a, b string) (*models.Conversation, bool, error) {
	want := models.NewConversation(a, b)
	pair := Query{Where: map[string]any{"participant_a": want.ParticipantA, "participant_b": want.ParticipantB}}

	existing, err := r.FindOne(ctx, pair)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, false, err
	}

	if err := r.Create(ctx, want); err != nil {
		if !errors.Is(err, apperror.ErrConstraintViolation) {
			return nil, false, err
		}
		existing, err = r.FindOne(ctx, pair)
		return existing, false, err
	}
	return want, true, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var out []models.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&out).Error
	return out, classify(err)
}

func (r *conversationRepository) AddMessage(ctx context.Context, conversationID string, msg *models.Message) error {
	msg.ConversationID = &conversationID
	msg.ThreadID = nil
	return InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := NewGateway[models.Message](tx).Create(ctx, msg); err != nil {
			return err
		}
		_, err := NewGateway[models.Conversation](tx).UpdateMany(ctx, By("id", conversationID), map[string]any{"last_message_at": time.Now()})
		return err
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, offset, limit int) ([]models.Message, error) {
	return NewGateway[models.Message](r.db).FindMany(ctx, Query{
		Where:  map[string]any{"conversation_id": conversationID},
		Order:  "created_at ASC",
		Offset: offset,
		Limit:  limit,
	})
}

// DeleteWithMessages deletes child messages then the conversation as one unit.
func (r *conversationRepository) DeleteWithMessages(ctx context.Context, id string) error {
	return InTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if _, err := NewGateway[models.Message](tx).DeleteMany(ctx, By("conversation_id", id)); err != nil {
			return err
		}
		return NewGateway[models.Conversation](tx).Delete(ctx, id)
	})
}
