// Package ratelimit builds the API request limiter.
package ratelimit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/cache"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/usercontext"
)

// Limiter storage uses database 1 (cache uses DB 0).
const storageDatabase = 1

// Config controls the window and the number of requests per key.
type Config struct {
	Max        int
	Expiration time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Max:        env.GetEnvInt("RATE_LIMIT_MAX", 120),
		Expiration: env.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// NewStorage creates the Redis limiter storage on the same server as client.
// The client must already have answered a ping; the storage panics otherwise.
func NewStorage(client *goredis.Client) fiber.Storage {
	host, port := cache.HostPort(client)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: client.Options().Password,
		Database: storageDatabase,
		Reset:    false,
	})
}

// New returns the limiter middleware. A nil storage keeps counters in memory.
func New(cfg Config, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid := usercontext.GetUserID(c); uid != "" {
				return "user:" + uid
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		},
	})
}
