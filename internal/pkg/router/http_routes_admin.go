package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/middleware"
)

func (h ApiRouter) registerAdminRoutes(api fiber.Router) {
	ctrl := h.opts.Controllers

	adminGroup := api.Group("/admin", middleware.RequireAdmin())
	adminGroup.Get("/stats", ctrl.Admin.HandleStats)
	adminGroup.Post("/billing/pause", ctrl.Admin.HandleSetBillingPause)
	adminGroup.Patch("/users/:id/role", ctrl.Admin.HandleUpdateUserRole)
	adminGroup.Post("/affiliates/:id/commissions/pay", ctrl.Admin.HandlePayCommissions)
}
