package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

// ConversationController serves direct messages between two users.
type ConversationController struct {
	deps Deps
}

type createConversationRequest struct {
	ParticipantA string `json:"participantA" validate:"required"`
	ParticipantB string `json:"participantB" validate:"required"`
}

// HandleCreateConversation returns the pair's conversation, creating it on
// first contact (201) and answering 200 when it already existed.
func (cc *ConversationController) HandleCreateConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	if req.ParticipantA == req.ParticipantB {
		return writeError(c, cc.deps.Log, apperror.BadRequest("participants must differ"))
	}
	for _, id := range []string{req.ParticipantA, req.ParticipantB} {
		if ok, err := cc.deps.Repos.User.Exists(c.UserContext(), id); err != nil {
			return writeError(c, cc.deps.Log, err)
		} else if !ok {
			return writeError(c, cc.deps.Log, apperror.NotFound("user %s not found", id))
		}
	}

	conv, created, err := cc.deps.Repos.Conversation.FindOrCreate(c.UserContext(), req.ParticipantA, req.ParticipantB)
	if err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"conversation": conv})
}

func (cc *ConversationController) HandleListConversations(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	convs, err := cc.deps.Repos.Conversation.ListByUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

func (cc *ConversationController) HandleListMessages(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := cc.deps.Repos.Conversation.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	offset, limit := pagination(c)
	msgs, err := cc.deps.Repos.Conversation.ListMessages(c.UserContext(), id, offset, limit)
	if err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (cc *ConversationController) HandlePostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	conv, err := cc.deps.Repos.Conversation.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	if !conv.HasParticipant(req.SenderID) {
		return writeError(c, cc.deps.Log, apperror.Forbidden("sender is not part of this conversation"))
	}

	msg := &models.Message{SenderID: req.SenderID, Body: req.Body}
	if err := cc.deps.Repos.Conversation.AddMessage(c.UserContext(), conv.ID, msg); err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	notifyMessage(c.UserContext(), cc.deps, conv.Counterpart(req.SenderID), conv.ID)
	cc.deps.Analytics.Track(analytics.EventMessageSent, req.SenderID, map[string]any{"conversationId": conv.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

func (cc *ConversationController) HandleDeleteConversation(c *fiber.Ctx) error {
	if err := cc.deps.Repos.Conversation.DeleteWithMessages(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, cc.deps.Log, err)
	}
	return success(c)
}
