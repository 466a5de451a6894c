package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
)

type EntitlementController struct {
	deps Deps
}

// HandleGetEntitlements resolves the entitlement snapshot of a user.
// GET /entitlements?userId=<id>
func (ec *EntitlementController) HandleGetEntitlements(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, ec.deps.Log, err)
	}

	ent, err := ec.deps.Entitlements.GetUserEntitlements(c.UserContext(), userID)
	if err != nil {
		return writeError(c, ec.deps.Log, err)
	}
	ec.deps.Analytics.Track(analytics.EventEntitlementsResolved, userID, map[string]any{"canReceiveLeads": ent.CanReceiveLeads})
	return c.JSON(fiber.Map{"entitlements": ent})
}
