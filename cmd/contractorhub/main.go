package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/app/controllers"
	"github.com/ManuelReschke/ContractorHub/app/repository"
	apiv1 "github.com/ManuelReschke/ContractorHub/internal/api/v1"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/auth"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/billing"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/cache"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/database"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/entitlements"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/logger"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/objectstore"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/ratelimit"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/router"
)

func main() {
	env.SetupEnvFile()

	appLog, err := logger.New(env.GetEnv("LOG_LEVEL", "info"), env.IsDev())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := NewApplication(ctx, appLog)
	if err != nil {
		appLog.Fatalw("failed to start", "error", err)
	}

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	go func() {
		if err := application.App.Listen(addr); err != nil {
			appLog.Errorw("server stopped", "error", err)
			stop()
		}
	}()
	appLog.Infow("listening", "addr", addr)

	<-ctx.Done()
	appLog.Infow("shutting down")
	application.Shutdown(env.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
}

// Application is the wired server plus what must be released on shutdown.
type Application struct {
	App     *fiber.App
	Log     *zap.SugaredLogger
	closers []func() error
	flush   func()
}

func NewApplication(ctx context.Context, appLog *zap.SugaredLogger) (*Application, error) {
	a := &Application{Log: appLog, flush: func() {}}

	if _, err := apiv1.Load(ctx); err != nil {
		return nil, err
	}

	db, err := database.Open(database.ConfigFromEnv(), appLog)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return database.Close(db) })

	m := metrics.NewDefault()

	var (
		sink           analytics.Sink = analytics.NopSink{}
		limiterStorage fiber.Storage
	)
	if rdb := connectCache(ctx, appLog); rdb != nil {
		a.closers = append(a.closers, rdb.Close)
		redisSink := analytics.NewRedisSink(rdb, env.GetEnv("ANALYTICS_STREAM", analytics.DefaultStream), appLog, m)
		sink = redisSink
		a.flush = redisSink.Flush
		limiterStorage = ratelimit.NewStorage(rdb)
	}

	uploader, err := buildUploader(ctx, appLog)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	billingService := billing.NewServiceFromDB(db, billing.WithMetrics(m), billing.WithLogger(appLog))
	ctrl := controllers.New(controllers.Deps{
		Repos:        repos,
		Billing:      billingService,
		Entitlements: entitlements.NewResolver(repos.User, billingService, m, appLog),
		Uploader:     uploader,
		Analytics:    sink,
		Log:          appLog,
	})

	a.App = fiber.New(fiber.Config{
		// Handler values outlive the request in analytics goroutines.
		Immutable:    true,
		BodyLimit:    8 << 20,
		ReadTimeout:  env.GetEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: env.GetEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
	})
	router.InstallRouter(a.App, router.Options{
		Controllers:  ctrl,
		Auth:         auth.HeaderProvider{},
		Log:          appLog,
		Metrics:      m,
		Limiter:      ratelimit.New(ratelimit.ConfigFromEnv(), limiterStorage),
		MetricsUsers: router.Credentials(env.GetEnv("METRICS_USER", ""), env.GetEnv("METRICS_PASSWORD", "")),
		WebhookUsers: router.Credentials(env.GetEnv("WEBHOOK_USER", ""), env.GetEnv("WEBHOOK_PASSWORD", "")),
		DocsPath:     findDocs(),
	})
	return a, nil
}

// Shutdown drains HTTP, flushes analytics, then closes Redis and the DB.
func (a *Application) Shutdown(timeout time.Duration) {
	if a.App != nil {
		if err := a.App.ShutdownWithTimeout(timeout); err != nil {
			a.Log.Warnw("http shutdown", "error", err)
		}
	}
	a.flush()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warnw("close failed", "error", err)
		}
	}
}

// connectCache returns nil when Redis is not reachable; analytics then
// degrade to a no-op sink and the limiter keeps counters in memory.
func connectCache(ctx context.Context, appLog *zap.SugaredLogger) *redis.Client {
	cfg := cache.ConfigFromEnv()
	if cfg.Host == "" {
		return nil
	}
	rdb := cache.New(cfg)
	if err := cache.Ping(ctx, rdb, 3*time.Second); err != nil {
		appLog.Warnw("redis unavailable, continuing without it", "addr", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func buildUploader(ctx context.Context, appLog *zap.SugaredLogger) (objectstore.Uploader, error) {
	cfg, err := objectstore.LoadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		appLog.Infow("object storage disabled, avatar uploads will fail with 502")
		return objectstore.DisabledUploader{}, nil
	}
	return objectstore.NewS3Uploader(ctx, cfg, appLog)
}

func findDocs() string {
	// From the project root or from cmd/contractorhub
	for _, base := range []string{"./", "../../", "../../../"} {
		p := base + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
