package models

import "time"

// Thread is the lead-scoped conversation between one contractor and the homeowner.
type Thread struct {
	Base
	LeadID        string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_threads_lead_contractor,priority:1" json:"leadId"`
	ContractorID  string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_threads_lead_contractor,priority:2;index" json:"contractorId"`
	HomeownerID   string     `gorm:"type:varchar(36);not null;index" json:"homeownerId"`
	LastMessageAt *time.Time `gorm:"default:null" json:"lastMessageAt,omitempty"`
}

// HasParticipant reports whether userID may read or post in the thread.
func (t *Thread) HasParticipant(userID string) bool {
	return userID != "" && (t.ContractorID == userID || t.HomeownerID == userID)
}

// Counterpart returns the other participant.
func (t *Thread) Counterpart(userID string) string {
	if t.ContractorID == userID {
		return t.HomeownerID
	}
	return t.ContractorID
}
