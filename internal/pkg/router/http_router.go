package router

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/monitor"
)

// HttpRouter serves the operational endpoints: health, metrics, docs and
// provider webhooks.
type HttpRouter struct {
	opts Options
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	h.registerPublicRoutes(app)

	// fiber metrics
	app.Get("/metrics", monitor.New())
	if h.opts.Metrics != nil {
		app.Get("/metrics/prometheus", basicauth.New(basicauth.Config{
			Users: h.opts.MetricsUsers,
		}), adaptor.HTTPHandler(h.opts.Metrics.Handler()))
	}

	// SWAGGER / OPENAPI
	if h.opts.DocsPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: h.opts.DocsPath,
			Path:     "v1",
		}))
	}
}

func NewHttpRouter(opts Options) *HttpRouter {
	return &HttpRouter{opts: opts}
}
