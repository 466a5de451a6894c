package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	deps Deps
}

// HandleHealth pings the database.
func (hc *HealthController) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := hc.deps.Repos.Stats.Ping(ctx); err != nil {
		hc.deps.Log.Warnw("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
