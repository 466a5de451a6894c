package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/app/repository"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

type LeadController struct {
	deps Deps
}

type createLeadRequest struct {
	HomeownerID string `json:"homeownerId" validate:"required"`
	Category    string `json:"category" validate:"required,max=100"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ZipCode     string `json:"zipCode" validate:"required,max=10"`
}

type updateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open hired closed"`
}

// HandleCreateLead stores a job request of a homeowner.
func (lc *LeadController) HandleCreateLead(c *fiber.Ctx) error {
	var req createLeadRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, lc.deps.Log, err)
	}

	owner, err := lc.deps.Repos.User.FindByID(c.UserContext(), req.HomeownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return writeError(c, lc.deps.Log, apperror.BadRequest("homeownerId does not reference a user"))
		}
		return writeError(c, lc.deps.Log, err)
	}
	if !owner.IsHomeowner() {
		return writeError(c, lc.deps.Log, apperror.BadRequest("only homeowners can create leads"))
	}

	lead := &models.Lead{
		HomeownerID: req.HomeownerID,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ZipCode:     strings.TrimSpace(req.ZipCode),
		Status:      models.LeadStatusOpen,
	}
	if err := validateStruct(lead); err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	if err := lc.deps.Repos.Lead.Create(c.UserContext(), lead); err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	lc.deps.Analytics.Track(analytics.EventLeadCreated, owner.ID, map[string]any{"category": lead.Category})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lead": lead})
}

// HandleListLeads filters by homeownerId, status and category.
func (lc *LeadController) HandleListLeads(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !models.ValidLeadStatus(status) {
		return writeError(c, lc.deps.Log, apperror.BadRequest("status must be one of: open hired closed"))
	}
	offset, limit := pagination(c)
	leads, err := lc.deps.Repos.Lead.List(c.UserContext(), repository.LeadFilter{
		HomeownerID: strings.TrimSpace(c.Query("homeownerId")),
		Status:      status,
		Category:    strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"leads": leads})
}

// HandleAvailableLeads lists open leads in the contractor's active
// categories. Contractors that cannot receive leads get 403.
func (lc *LeadController) HandleAvailableLeads(c *fiber.Ctx) error {
	contractorID, err := requiredQuery(c, "contractorId")
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	ent, err := lc.deps.Entitlements.GetUserEntitlements(c.UserContext(), contractorID)
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	if !ent.CanReceiveLeads {
		return writeError(c, lc.deps.Log, apperror.Forbidden("contractor cannot receive leads"))
	}

	offset, limit := pagination(c)
	leads, err := lc.deps.Repos.Lead.List(c.UserContext(), repository.LeadFilter{
		Status:     models.LeadStatusOpen,
		Categories: ent.ActiveCategories,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"leads": leads})
}

func (lc *LeadController) HandleGetLead(c *fiber.Ctx) error {
	lead, err := lc.deps.Repos.Lead.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"lead": lead})
}

func (lc *LeadController) HandleUpdateLeadStatus(c *fiber.Ctx) error {
	var req updateLeadStatusRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	id := c.Params("id")
	if err := lc.deps.Repos.Lead.UpdateStatus(c.UserContext(), id, req.Status); err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	lead, err := lc.deps.Repos.Lead.FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"lead": lead})
}

func (lc *LeadController) HandleDeleteLead(c *fiber.Ctx) error {
	if err := lc.deps.Repos.Lead.DeleteWithThreads(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, lc.deps.Log, err)
	}
	return success(c)
}
