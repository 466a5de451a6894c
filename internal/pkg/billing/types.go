package billing

import "time"

// NormalizedSubscription is the provider-agnostic shape used by the billing
// service when syncing external subscription state into local tables.
type NormalizedSubscription struct {
	UserID                 string
	Provider               string
	ProviderSubscriptionID string
	Category               string
	Status                 string
	IsTrial                bool
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
}

// Charge is a settled payment reported by the provider.
type Charge struct {
	UserID         string
	SubscriptionID string
	Amount         float64
	Currency       string
	ProviderRef    string
	Description    string
}
