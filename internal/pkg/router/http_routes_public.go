package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	ctrl := h.opts.Controllers

	app.Get("/healthz", ctrl.Health.HandleHealth)

	// Billing provider webhooks (basic auth, no user identity)
	webhooks := app.Group("/webhooks", basicauth.New(basicauth.Config{
		Users: h.opts.WebhookUsers,
		Unauthorized: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		},
	}))
	webhooks.Post("/subscriptions", ctrl.Webhooks.HandleSubscriptionEvent)
}
