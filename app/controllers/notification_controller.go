package controllers

import (
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	deps Deps
}

type readAllRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// HandleListNotifications returns the user's notifications and unread count.
// GET /notifications?userId=<id>&unread=true
func (nc *NotificationController) HandleListNotifications(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	offset, limit := pagination(c)
	items, err := nc.deps.Repos.Notification.ListByUser(c.UserContext(), userID, c.QueryBool("unread", false), offset, limit)
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	unread, err := nc.deps.Repos.Notification.CountUnread(c.UserContext(), userID)
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"notifications": items, "unreadCount": unread})
}

func (nc *NotificationController) HandleMarkRead(c *fiber.Ctx) error {
	if err := nc.deps.Repos.Notification.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	return success(c)
}

func (nc *NotificationController) HandleMarkAllRead(c *fiber.Ctx) error {
	var req readAllRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	n, err := nc.deps.Repos.Notification.MarkAllRead(c.UserContext(), req.UserID)
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// HandleDeleteAll clears every notification of the user.
// DELETE /notifications?userId=<id>
func (nc *NotificationController) HandleDeleteAll(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	n, err := nc.deps.Repos.Notification.DeleteAllForUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, nc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}
