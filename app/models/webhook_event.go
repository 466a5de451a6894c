package models

import "time"

// WebhookEvent stores provider webhook payloads with deduplication
// metadata for idempotent processing.
type WebhookEvent struct {
	Base
	Provider        string     `gorm:"type:varchar(20);not null;uniqueIndex:ux_webhook_events_provider_event,priority:1" json:"provider"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_webhook_events_provider_event,priority:2" json:"providerEventId"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"eventType"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"-"`
	ProcessedAt     *time.Time `gorm:"default:null" json:"processedAt,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processingError,omitempty"`
}
