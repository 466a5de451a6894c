package models

import "time"

// Conversation is a direct message channel between two users. Participants
// are stored in lexical order so a pair maps to exactly one row.
type Conversation struct {
	Base
	ParticipantA  string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_conversations_pair,priority:1" json:"participantA"`
	ParticipantB  string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_conversations_pair,priority:2;index" json:"participantB"`
	LastMessageAt *time.Time `gorm:"default:null" json:"lastMessageAt,omitempty"`
}

// NewConversation orders the participants.
func NewConversation(a, b string) *Conversation {
	if b < a {
		a, b = b, a
	}
	return &Conversation{ParticipantA: a, ParticipantB: b}
}

func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}

func (c *Conversation) Counterpart(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}
