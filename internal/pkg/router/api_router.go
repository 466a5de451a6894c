package router

import (
	"github.com/gofiber/fiber/v2"
)

type ApiRouter struct {
	opts Options
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	ctrl := h.opts.Controllers

	api := app.Group("")
	if h.opts.Limiter != nil {
		api = app.Group("", h.opts.Limiter)
	}

	// Billing + entitlements
	api.Get("/billing", ctrl.Billing.HandleGetBilling)
	api.Post("/billing/toggle", ctrl.Billing.HandleToggleBilling)
	api.Get("/billing/subscriptions", ctrl.Billing.HandleListSubscriptions)
	api.Get("/entitlements", ctrl.Entitlements.HandleGetEntitlements)

	// Users
	api.Post("/users", ctrl.Users.HandleCreateUser)
	api.Get("/users/:id", ctrl.Users.HandleGetUser)
	api.Post("/users/:id/avatar", ctrl.Users.HandleUploadAvatar)

	// Leads; /leads/available must precede /leads/:id
	api.Post("/leads", ctrl.Leads.HandleCreateLead)
	api.Get("/leads", ctrl.Leads.HandleListLeads)
	api.Get("/leads/available", ctrl.Leads.HandleAvailableLeads)
	api.Get("/leads/:id", ctrl.Leads.HandleGetLead)
	api.Patch("/leads/:id/status", ctrl.Leads.HandleUpdateLeadStatus)
	api.Delete("/leads/:id", ctrl.Leads.HandleDeleteLead)

	// Lead threads
	api.Post("/threads", ctrl.Threads.HandleCreateThread)
	api.Get("/threads", ctrl.Threads.HandleListThreads)
	api.Get("/threads/:id/messages", ctrl.Threads.HandleListMessages)
	api.Post("/threads/:id/messages", ctrl.Threads.HandlePostMessage)
	api.Delete("/threads/:id", ctrl.Threads.HandleDeleteThread)

	// Direct messages
	api.Post("/conversations", ctrl.Conversations.HandleCreateConversation)
	api.Get("/conversations", ctrl.Conversations.HandleListConversations)
	api.Get("/conversations/:id/messages", ctrl.Conversations.HandleListMessages)
	api.Post("/conversations/:id/messages", ctrl.Conversations.HandlePostMessage)
	api.Delete("/conversations/:id", ctrl.Conversations.HandleDeleteConversation)

	// Notifications
	api.Get("/notifications", ctrl.Notifications.HandleListNotifications)
	api.Post("/notifications/read-all", ctrl.Notifications.HandleMarkAllRead)
	api.Post("/notifications/:id/read", ctrl.Notifications.HandleMarkRead)
	api.Delete("/notifications", ctrl.Notifications.HandleDeleteAll)

	// Affiliates
	api.Post("/affiliates", ctrl.Affiliates.HandleCreateAffiliate)
	api.Get("/affiliates/:id/commissions", ctrl.Affiliates.HandleListCommissions)
	api.Post("/affiliates/:id/commissions", ctrl.Affiliates.HandleAddCommission)
	api.Get("/affiliates/:id/commissions/totals", ctrl.Affiliates.HandleCommissionTotals)

	// Reviews + ledger
	api.Post("/reviews", ctrl.Reviews.HandleCreateReview)
	api.Get("/contractors/:id/reviews", ctrl.Reviews.HandleContractorReviews)
	api.Get("/transactions", ctrl.Transactions.HandleListTransactions)

	h.registerAdminRoutes(api)
}

func NewApiRouter(opts Options) *ApiRouter {
	return &ApiRouter{opts: opts}
}
