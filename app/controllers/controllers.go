// Package controllers holds the HTTP handlers of the marketplace API.
package controllers

import (
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/app/repository"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/billing"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/entitlements"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/objectstore"
)

// Deps are the collaborators shared by every controller.
type Deps struct {
	Repos        *repository.Repositories
	Billing      *billing.Service
	Entitlements *entitlements.Resolver
	Uploader     objectstore.Uploader
	Analytics    analytics.Sink
	Log          *zap.SugaredLogger
}

// Controllers bundles one controller per API area.
type Controllers struct {
	Billing       *BillingController
	Entitlements  *EntitlementController
	Users         *UserController
	Leads         *LeadController
	Threads       *ThreadController
	Conversations *ConversationController
	Notifications *NotificationController
	Affiliates    *AffiliateController
	Reviews       *ReviewController
	Transactions  *TransactionController
	Webhooks      *WebhookController
	Admin         *AdminController
	Health        *HealthController
}

// New wires every controller from deps. Missing optional collaborators
// fall back to no-op implementations.
func New(deps Deps) *Controllers {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Analytics == nil {
		deps.Analytics = analytics.NopSink{}
	}
	if deps.Uploader == nil {
		deps.Uploader = objectstore.DisabledUploader{}
	}

	return &Controllers{
		Billing:       &BillingController{deps: deps},
		Entitlements:  &EntitlementController{deps: deps},
		Users:         &UserController{deps: deps},
		Leads:         &LeadController{deps: deps},
		Threads:       &ThreadController{deps: deps},
		Conversations: &ConversationController{deps: deps},
		Notifications: &NotificationController{deps: deps},
		Affiliates:    &AffiliateController{deps: deps},
		Reviews:       &ReviewController{deps: deps},
		Transactions:  &TransactionController{deps: deps},
		Webhooks:      &WebhookController{deps: deps},
		Admin:         &AdminController{deps: deps},
		Health:        &HealthController{deps: deps},
	}
}
