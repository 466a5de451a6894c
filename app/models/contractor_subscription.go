package models

import "time"

const (
	SubscriptionProviderStripe = "stripe"
	SubscriptionProviderManual = "manual"
)

const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusExpired    = "expired"
	SubscriptionStatusPaused     = "paused"
)

// ContractorSubscription mirrors a provider subscription for one lead category.
// Rows are written out-of-band by the payment provider webhook.
type ContractorSubscription struct {
	Base
	UserID                 string     `gorm:"type:varchar(36);not null;index" json:"userId"`
	Provider               string     `gorm:"type:varchar(20);not null;uniqueIndex:ux_contractor_subscriptions_provider_subid,priority:1" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_contractor_subscriptions_provider_subid,priority:2" json:"providerSubscriptionId"`
	Category               string     `gorm:"type:varchar(100);not null;default:'general';index" json:"category"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'incomplete'" json:"status"`
	IsTrial                bool       `gorm:"not null;default:false" json:"isTrial"`
	IsActive               bool       `gorm:"not null;default:false;index" json:"isActive"`
	CurrentPeriodEnd       *time.Time `gorm:"default:null" json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false" json:"cancelAtPeriodEnd"`
}
