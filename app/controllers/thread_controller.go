package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

// ThreadController serves lead-scoped threads between a contractor and a homeowner.
type ThreadController struct {
	deps Deps
}

type createThreadRequest struct {
	LeadID       string `json:"leadId" validate:"required"`
	ContractorID string `json:"contractorId" validate:"required"`
	HomeownerID  string `json:"homeownerId" validate:"required"`
}

type postMessageRequest struct {
	SenderID string `json:"senderId" validate:"required"`
	Body     string `json:"body" validate:"required,max=10000"`
}

// HandleCreateThread opens the thread of a contractor on a lead. There is at
// most one thread per (lead, contractor).
func (tc *ThreadController) HandleCreateThread(c *fiber.Ctx) error {
	var req createThreadRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, tc.deps.Log, err)
	}

	lead, err := tc.deps.Repos.Lead.FindByID(c.UserContext(), req.LeadID)
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	if lead.HomeownerID != req.HomeownerID {
		return writeError(c, tc.deps.Log, apperror.BadRequest("homeownerId does not own the lead"))
	}

	thread := &models.Thread{LeadID: req.LeadID, ContractorID: req.ContractorID, HomeownerID: req.HomeownerID}
	if err := tc.deps.Repos.Thread.Create(c.UserContext(), thread); err != nil {
		if errors.Is(err, apperror.ErrConstraintViolation) {
			err = apperror.Wrap(apperror.ErrConstraintViolation, err, "thread already exists for this lead and contractor")
		}
		return writeError(c, tc.deps.Log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"thread": thread})
}

func (tc *ThreadController) HandleListThreads(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	threads, err := tc.deps.Repos.Thread.ListByUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"threads": threads})
}

func (tc *ThreadController) HandleListMessages(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := tc.deps.Repos.Thread.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	offset, limit := pagination(c)
	msgs, err := tc.deps.Repos.Thread.ListMessages(c.UserContext(), id, offset, limit)
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

// HandlePostMessage appends a message and notifies the other participant.
func (tc *ThreadController) HandlePostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	thread, err := tc.deps.Repos.Thread.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	if !thread.HasParticipant(req.SenderID) {
		return writeError(c, tc.deps.Log, apperror.Forbidden("sender is not part of this thread"))
	}

	msg := &models.Message{SenderID: req.SenderID, Body: req.Body}
	if err := tc.deps.Repos.Thread.AddMessage(c.UserContext(), thread.ID, msg); err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	notifyMessage(c.UserContext(), tc.deps, thread.Counterpart(req.SenderID), thread.ID)
	tc.deps.Analytics.Track(analytics.EventMessageSent, req.SenderID, map[string]any{"threadId": thread.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// HandleDeleteThread removes the thread together with its messages.
func (tc *ThreadController) HandleDeleteThread(c *fiber.Ctx) error {
	if err := tc.deps.Repos.Thread.DeleteWithMessages(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	return success(c)
}

// notifyMessage creates the "new message" notification. A failure is logged
// and does not fail the already stored message.
func notifyMessage(ctx context.Context, deps Deps, recipientID, referenceID string) {
	n := &models.Notification{
		UserID:      recipientID,
		Type:        models.NotificationTypeMessage,
		Content:     "You have a new message",
		ReferenceID: referenceID,
	}
	if err := deps.Repos.Notification.Create(ctx, n); err != nil {
		deps.Log.Warnw("message notification not stored", "recipient_id", recipientID, "reference_id", referenceID, "error", err)
	}
}
