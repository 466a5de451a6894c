// Package entitlements derives what a user may do from their billing state.
package entitlements

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
)

// Entitlements is a point-in-time snapshot. It is recomputed on every call
// and may be stale as soon as it is returned.
type Entitlements struct {
	UserID                string    `json:"userId"`
	Role                  string    `json:"role"`
	HasActiveSubscription bool      `json:"hasActiveSubscription"`
	IsPaused              bool      `json:"isPaused"`
	CanReceiveLeads       bool      `json:"canReceiveLeads"`
	IsTrial               bool      `json:"isTrial"`
	ActiveCategories      []string  `json:"activeCategories"`
	ComputedAt            time.Time `json:"computedAt"`
}

// UserLookup finds users by id.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// BillingSource provides the billing row and subscriptions of a user.
type BillingSource interface {
	GetOrCreateContractorBilling(ctx context.Context, userID string) (*models.ContractorBilling, error)
	ListSubscriptions(ctx context.Context, userID string) ([]models.ContractorSubscription, error)
}

// Resolver computes entitlements without caching.
type Resolver struct {
	users   UserLookup
	billing BillingSource
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewResolver(users UserLookup, billing BillingSource, m *metrics.Metrics, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{users: users, billing: billing, metrics: m, log: log, now: time.Now}
}

// GetUserEntitlements loads the user, their billing row (created on first
// use) and their subscriptions, and derives the entitlement snapshot.
func (r *Resolver) GetUserEntitlements(ctx context.Context, userID string) (*Entitlements, error) {
	ent, err := r.resolve(ctx, strings.TrimSpace(userID))
	switch {
	case err == nil:
		r.metrics.ObserveEntitlement(metrics.ResultOK)
	case errors.Is(err, apperror.ErrNotFound):
		r.metrics.ObserveEntitlement(metrics.ResultNotFound)
	case errors.Is(err, apperror.ErrBadRequest):
	default:
		r.metrics.ObserveEntitlement(metrics.ResultError)
		r.log.Errorw("entitlement resolution failed", "user_id", userID, "error", err)
	}
	return ent, err
}

func (r *Resolver) resolve(ctx context.Context, userID string) (*Entitlements, error) {
	if userID == "" {
		return nil, apperror.BadRequest("userId is required")
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, err, "user %s not found", userID)
		}
		return nil, err
	}

	billing, err := r.billing.GetOrCreateContractorBilling(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs, err := r.billing.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent := Derive(user, billing, subs)
	ent.ComputedAt = r.now().UTC()
	return &ent, nil
}

// Derive is the pure part of entitlement resolution.
func Derive(user *models.User, billing *models.ContractorBilling, subs []models.ContractorSubscription) Entitlements {
	ent := Entitlements{
		UserID:           user.ID,
		Role:             user.Role,
		IsPaused:         billing != nil && billing.IsPaused,
		ActiveCategories: []string{},
	}

	seen := map[string]struct{}{}
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		ent.HasActiveSubscription = true
		if sub.IsTrial {
			ent.IsTrial = true
		}
		if _, ok := seen[sub.Category]; ok || sub.Category == "" {
			continue
		}
		seen[sub.Category] = struct{}{}
		ent.ActiveCategories = append(ent.ActiveCategories, sub.Category)
	}
	sort.Strings(ent.ActiveCategories)

	ent.CanReceiveLeads = ent.HasActiveSubscription && !ent.IsPaused
	return ent
}
