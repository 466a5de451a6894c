package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
)

// maxCreateAttempts bounds the find/create/re-find loop of GetOrCreateContractorBilling.
const maxCreateAttempts = 3

// Service owns the contractor billing row and the subscription mirror.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

// Option configures a Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, opts ...Option) *Service {
	return NewService(NewRepository(db), opts...)
}

// GetOrCreateContractorBilling returns the user's billing row, creating it
// unpaused on first use. When a concurrent caller wins the insert, the
// unique index on user_id rejects ours and the winner's row is re-read.
func (s *Service) GetOrCreateContractorBilling(ctx context.Context, userID string) (*models.ContractorBilling, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.BadRequest("userId is required")
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("user %s not found", userID)
	}

	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		billing, err := s.repo.FindBilling(ctx, userID)
		if err == nil {
			return billing, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		billing = &models.ContractorBilling{UserID: userID, IsPaused: false}
		err = s.repo.CreateBilling(ctx, billing)
		if err == nil {
			return billing, nil
		}
		if !errors.Is(err, apperror.ErrConstraintViolation) {
			return nil, err
		}
		lastErr = err
		s.metrics.ObserveCreateRetry()
		s.log.Debugw("billing create lost race, re-reading", "user_id", userID, "attempt", attempt)
	}
	return nil, apperror.Wrap(apperror.ErrInternal, lastErr, "billing for user %s could not be created", userID)
}

// ToggleBillingPause flips the pause flag of an existing billing row and
// returns the caller's post-state. It never creates a row.
func (s *Service) ToggleBillingPause(ctx context.Context, userID string) (*models.ContractorBilling, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.BadRequest("userId is required")
	}

	billing, err := s.repo.ToggleBillingPause(ctx, userID)
	switch {
	case err == nil:
		s.metrics.ObserveToggle(metrics.ResultOK)
		s.log.Infow("billing pause toggled", "user_id", userID, "is_paused", billing.IsPaused)
		return billing, nil
	case errors.Is(err, apperror.ErrNotFound):
		s.metrics.ObserveToggle(metrics.ResultNotFound)
		return nil, apperror.Wrap(apperror.ErrNotFound, err, "billing record for user %s not found", userID)
	default:
		s.metrics.ObserveToggle(metrics.ResultError)
		return nil, err
	}
}

// SetBillingPause sets the pause flag to an explicit value, creating the
// billing row when needed. Repeating the call is a no-op.
func (s *Service) SetBillingPause(ctx context.Context, userID string, paused bool) (*models.ContractorBilling, error) {
	if _, err := s.GetOrCreateContractorBilling(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.SetBillingPause(ctx, strings.TrimSpace(userID), paused)
}

// ListSubscriptions returns every subscription mirrored for the user.
func (s *Service) ListSubscriptions(ctx context.Context, userID string) ([]models.ContractorSubscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.BadRequest("userId is required")
	}
	return s.repo.ListSubscriptionsByUser(ctx, userID)
}

// SyncSubscription upserts provider subscription data keyed by
// (provider, provider_subscription_id).
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.ContractorSubscription, error) {
	userID := strings.TrimSpace(in.UserID)
	subID := strings.TrimSpace(in.ProviderSubscriptionID)
	if userID == "" || subID == "" {
		return nil, apperror.BadRequest("userId and subscription id are required")
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("user %s not found", userID)
	}

	status := normalizeStatus(in.Status)
	sub := &models.ContractorSubscription{
		UserID:                 userID,
		Provider:               normalizeProvider(in.Provider),
		ProviderSubscriptionID: subID,
		Category:               normalizeCategory(in.Category),
		Status:                 status,
		IsTrial:                in.IsTrial || status == models.SubscriptionStatusTrialing,
		IsActive:               isEntitlingStatus(status),
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// RecordCharge writes a ledger line for a settled payment. Replayed charges
// with the same provider reference are ignored.
func (s *Service) RecordCharge(ctx context.Context, in Charge) (bool, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.ProviderRef) == "" {
		return false, apperror.BadRequest("userId and provider reference are required")
	}
	if in.Amount < 0 {
		return false, apperror.BadRequest("amount must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	return s.repo.CreateTransactionIfNotExists(ctx, &models.Transaction{
		UserID:         in.UserID,
		SubscriptionID: in.SubscriptionID,
		Kind:           models.TransactionKindCharge,
		Amount:         in.Amount,
		Currency:       currency,
		ProviderRef:    in.ProviderRef,
		Description:    in.Description,
	})
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	eventType := strings.TrimSpace(in.EventType)
	if eventType == "" {
		return false, nil, apperror.BadRequest("event type is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        normalizeProvider(in.Provider),
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     in.PayloadJSON,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID string, processingErr error) error {
	if strings.TrimSpace(webhookEventID) == "" {
		return apperror.BadRequest("webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}
