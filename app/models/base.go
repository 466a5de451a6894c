package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every entity.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide an ID.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&ContractorBilling{},
		&ContractorSubscription{},
		&WebhookEvent{},
		&Transaction{},
		&Lead{},
		&Thread{},
		&Conversation{},
		&Message{},
		&Notification{},
		&Affiliate{},
		&Commission{},
		&Review{},
	}
}
