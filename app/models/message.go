package models

import "time"

// Message belongs to either a Thread or a Conversation.
type Message struct {
	Base
	ThreadID       *string    `gorm:"type:varchar(36);index" json:"threadId,omitempty"`
	ConversationID *string    `gorm:"type:varchar(36);index" json:"conversationId,omitempty"`
	SenderID       string     `gorm:"type:varchar(36);not null;index" json:"senderId"`
	Body           string     `gorm:"type:text;not null" json:"body" validate:"required,max=10000"`
	ReadAt         *time.Time `gorm:"default:null" json:"readAt,omitempty"`
}
