package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

type ReviewController struct {
	deps Deps
}

type createReviewRequest struct {
	ContractorID string `json:"contractorId" validate:"required"`
	HomeownerID  string `json:"homeownerId" validate:"required"`
	LeadID       string `json:"leadId" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Body         string `json:"body" validate:"max=5000"`
}

// HandleCreateReview stores one review per (lead, homeowner).
func (rc *ReviewController) HandleCreateReview(c *fiber.Ctx) error {
	var req createReviewRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, rc.deps.Log, err)
	}

	lead, err := rc.deps.Repos.Lead.FindByID(c.UserContext(), req.LeadID)
	if err != nil {
		return writeError(c, rc.deps.Log, err)
	}
	if lead.HomeownerID != req.HomeownerID {
		return writeError(c, rc.deps.Log, apperror.BadRequest("homeownerId does not own the lead"))
	}
	contractor, err := rc.deps.Repos.User.FindByID(c.UserContext(), req.ContractorID)
	if err != nil {
		return writeError(c, rc.deps.Log, err)
	}
	if !contractor.IsContractor() {
		return writeError(c, rc.deps.Log, apperror.BadRequest("contractorId does not reference a contractor"))
	}

	review := &models.Review{
		ContractorID: req.ContractorID,
		HomeownerID:  req.HomeownerID,
		LeadID:       req.LeadID,
		Rating:       req.Rating,
		Body:         req.Body,
	}
	if err := rc.deps.Repos.Review.Create(c.UserContext(), review); err != nil {
		if errors.Is(err, apperror.ErrConstraintViolation) {
			err = apperror.Wrap(apperror.ErrConstraintViolation, err, "lead already reviewed")
		}
		return writeError(c, rc.deps.Log, err)
	}

	n := &models.Notification{
		UserID:      review.ContractorID,
		Type:        models.NotificationTypeReview,
		Content:     fmt.Sprintf("You received a %d-star review", review.Rating),
		ReferenceID: review.ID,
	}
	if err := rc.deps.Repos.Notification.Create(c.UserContext(), n); err != nil {
		rc.deps.Log.Warnw("review notification not stored", "review_id", review.ID, "error", err)
	}
	rc.deps.Analytics.Track(analytics.EventReviewCreated, review.HomeownerID, map[string]any{"rating": review.Rating})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

// HandleContractorReviews lists reviews with the rating summary aggregate.
func (rc *ReviewController) HandleContractorReviews(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := rc.deps.Repos.User.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, rc.deps.Log, err)
	}
	offset, limit := pagination(c)
	reviews, err := rc.deps.Repos.Review.ListByContractor(c.UserContext(), id, offset, limit)
	if err != nil {
		return writeError(c, rc.deps.Log, err)
	}
	summary, err := rc.deps.Repos.Review.RatingSummary(c.UserContext(), id)
	if err != nil {
		return writeError(c, rc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews, "summary": summary})
}
