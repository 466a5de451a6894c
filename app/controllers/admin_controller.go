package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/usercontext"
)

// AdminController handles admin-only requests using repository pattern
type AdminController struct {
	deps Deps
}

type setPauseRequest struct {
	UserID string `json:"userId" validate:"required"`
	Paused *bool  `json:"paused" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=homeowner contractor admin"`
}

// HandleStats returns the platform counters.
func (ac *AdminController) HandleStats(c *fiber.Ctx) error {
	stats, err := ac.deps.Repos.Stats.PlatformStats(c.UserContext())
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// HandleSetBillingPause pauses or resumes a contractor explicitly.
func (ac *AdminController) HandleSetBillingPause(c *fiber.Ctx) error {
	var req setPauseRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	b, err := ac.deps.Billing.SetBillingPause(c.UserContext(), req.UserID, *req.Paused)
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	ac.deps.Log.Infow("billing pause set by admin", "admin_id", usercontext.GetUserID(c), "user_id", req.UserID, "paused", b.IsPaused)
	return c.JSON(fiber.Map{"billing": b})
}

// HandleUpdateUserRole changes a user's role.
func (ac *AdminController) HandleUpdateUserRole(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req updateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	if id == usercontext.GetUserID(c) && req.Role != models.ROLE_ADMIN {
		return writeError(c, ac.deps.Log, apperror.BadRequest("admins cannot demote themselves"))
	}

	if err := ac.deps.Repos.User.UpdateRole(c.UserContext(), id, req.Role); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	user, err := ac.deps.Repos.User.FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandlePayCommissions marks every unpaid commission of the affiliate as paid.
func (ac *AdminController) HandlePayCommissions(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := ac.deps.Repos.Affiliate.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	n, err := ac.deps.Repos.Affiliate.PayOutstanding(c.UserContext(), id)
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.JSON(fiber.Map{"paid": n})
}
