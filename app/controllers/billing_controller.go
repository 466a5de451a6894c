package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
)

// BillingController serves the contractor billing switches.
type BillingController struct {
	deps Deps
}

type toggleBillingRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// HandleGetBilling returns the caller's billing row, creating it on first use.
// GET /billing?userId=<id>
func (bc *BillingController) HandleGetBilling(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, bc.deps.Log, err)
	}

	b, err := bc.deps.Billing.GetOrCreateContractorBilling(c.UserContext(), userID)
	if err != nil {
		return writeError(c, bc.deps.Log, err)
	}
	bc.deps.Analytics.Track(analytics.EventBillingViewed, userID, nil)
	return c.JSON(fiber.Map{"billing": b})
}

// HandleToggleBilling flips the pause flag of an existing billing row.
// POST /billing/toggle {"userId"}
func (bc *BillingController) HandleToggleBilling(c *fiber.Ctx) error {
	var req toggleBillingRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, bc.deps.Log, err)
	}

	b, err := bc.deps.Billing.ToggleBillingPause(c.UserContext(), req.UserID)
	if err != nil {
		return writeError(c, bc.deps.Log, err)
	}
	bc.deps.Analytics.Track(analytics.EventBillingToggled, req.UserID, map[string]any{"isPaused": b.IsPaused})
	return c.JSON(fiber.Map{"success": true, "isPaused": b.IsPaused})
}

// HandleListSubscriptions returns the mirrored provider subscriptions.
// GET /billing/subscriptions?userId=<id>
func (bc *BillingController) HandleListSubscriptions(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, bc.deps.Log, err)
	}
	subs, err := bc.deps.Billing.ListSubscriptions(c.UserContext(), userID)
	if err != nil {
		return writeError(c, bc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}
