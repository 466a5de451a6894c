package controllers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/billing"
)

const (
	defaultWebhookProvider = "stripe"
	eventInvoicePaid       = "invoice.paid"
)

// WebhookController ingests subscription events pushed by the payment provider.
type WebhookController struct {
	deps Deps
}

type webhookSubscription struct {
	ID                string     `json:"id" validate:"required"`
	UserID            string     `json:"userId" validate:"required"`
	Category          string     `json:"category"`
	Status            string     `json:"status"`
	Trial             bool       `json:"trial"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	Amount            float64    `json:"amount" validate:"gte=0"`
	Currency          string     `json:"currency"`
}

type webhookRequest struct {
	Provider     string              `json:"provider"`
	EventID      string              `json:"eventId"`
	Type         string              `json:"type" validate:"required"`
	Subscription webhookSubscription `json:"subscription"`
}

// HandleSubscriptionEvent records the event once, syncs the subscription
// and books a charge for paid invoices.
// POST /webhooks/subscriptions
func (wc *WebhookController) HandleSubscriptionEvent(c *fiber.Ctx) error {
	payload := string(c.Body())
	var req webhookRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return writeError(c, wc.deps.Log, apperror.BadRequest("invalid request body"))
	}
	if err := validateStruct(&req); err != nil {
		return writeError(c, wc.deps.Log, err)
	}
	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = defaultWebhookProvider
	}

	created, event, err := wc.deps.Billing.RecordWebhookEvent(c.UserContext(), billing.WebhookEventInput{
		Provider:        provider,
		ProviderEventID: req.EventID,
		EventType:       req.Type,
		PayloadJSON:     payload,
	})
	if err != nil {
		return writeError(c, wc.deps.Log, err)
	}
	if !created && event.ProcessedAt != nil && event.ProcessingError == "" {
		return c.JSON(fiber.Map{"success": true, "duplicate": true})
	}

	procErr := wc.apply(c, event, req)
	if err := wc.deps.Billing.MarkWebhookProcessed(c.UserContext(), event.ID, procErr); err != nil {
		wc.deps.Log.Errorw("webhook event not marked processed", "event_id", event.ID, "error", err)
	}
	if procErr != nil {
		return writeError(c, wc.deps.Log, procErr)
	}
	return c.JSON(fiber.Map{"success": true, "duplicate": false})
}

// apply uses the stored event's provider, which is already normalised.
func (wc *WebhookController) apply(c *fiber.Ctx, event *models.WebhookEvent, req webhookRequest) error {
	ctx := c.UserContext()
	sub, err := wc.deps.Billing.SyncSubscription(ctx, billing.NormalizedSubscription{
		UserID:                 req.Subscription.UserID,
		Provider:               event.Provider,
		ProviderSubscriptionID: req.Subscription.ID,
		Category:               req.Subscription.Category,
		Status:                 req.Subscription.Status,
		IsTrial:                req.Subscription.Trial,
		CurrentPeriodEnd:       req.Subscription.CurrentPeriodEnd,
		CancelAtPeriodEnd:      req.Subscription.CancelAtPeriodEnd,
	})
	if err != nil {
		return err
	}
	if req.Type != eventInvoicePaid {
		return nil
	}

	booked, err := wc.deps.Billing.RecordCharge(ctx, billing.Charge{
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Amount:         req.Subscription.Amount,
		Currency:       req.Subscription.Currency,
		ProviderRef:    event.Provider + ":" + event.ProviderEventID,
		Description:    fmt.Sprintf("%s subscription (%s)", sub.Category, sub.ProviderSubscriptionID),
	})
	if err != nil {
		return err
	}
	if booked {
		n := &models.Notification{
			UserID:      sub.UserID,
			Type:        models.NotificationTypeBilling,
			Content:     fmt.Sprintf("Payment of %.2f received for %s", req.Subscription.Amount, sub.Category),
			ReferenceID: sub.ID,
		}
		if err := wc.deps.Repos.Notification.Create(ctx, n); err != nil {
			wc.deps.Log.Warnw("billing notification not stored", "user_id", sub.UserID, "error", err)
		}
	}
	return nil
}
