package billing

import (
	"strings"

	"github.com/ManuelReschke/ContractorHub/app/models"
)

const defaultCategory = "general"

// normalizeStatus maps provider statuses onto ours. Anything unknown,
// including a missing status, becomes incomplete and grants no access.
func normalizeStatus(status string) string {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case models.SubscriptionStatusActive,
		models.SubscriptionStatusTrialing,
		models.SubscriptionStatusPastDue,
		models.SubscriptionStatusCanceled,
		models.SubscriptionStatusExpired,
		models.SubscriptionStatusPaused:
		return s
	case "cancelled":
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatusIncomplete
	}
}

// isEntitlingStatus reports whether a subscription in this status lets the
// contractor receive leads. past_due keeps access during the dunning window.
func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing, models.SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return models.SubscriptionProviderManual
	}
	return p
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return defaultCategory
	}
	return c
}
