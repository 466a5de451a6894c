// Package router installs every route of the HTTP API on a fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/app/controllers"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/auth"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/middleware"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/usercontext"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Options carries what the routers need from the process.
type Options struct {
	Controllers *controllers.Controllers
	Auth        auth.Provider
	Log         *zap.SugaredLogger
	Metrics     *metrics.Metrics
	// Limiter guards the API group; nil disables rate limiting.
	Limiter fiber.Handler
	// MetricsUsers and WebhookUsers are basic auth credentials. An empty
	// map rejects every request.
	MetricsUsers map[string]string
	WebhookUsers map[string]string
	// DocsPath points at the OpenAPI document; empty skips the docs UI.
	DocsPath string
}

func InstallRouter(app *fiber.App, opts Options) {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Auth == nil {
		opts.Auth = auth.HeaderProvider{}
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{ContextKey: usercontext.KeyRequestID}))
	app.Use(middleware.RequestLogger(opts.Log))
	app.Use(middleware.Identify(opts.Auth))

	// Ops routes go first so the API limiter never throttles health checks.
	setup(app, NewHttpRouter(opts), NewApiRouter(opts))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

// Credentials returns a basic auth user map, empty when user or password is unset.
func Credentials(user, password string) map[string]string {
	if user == "" || password == "" {
		return map[string]string{}
	}
	return map[string]string{user: password}
}
