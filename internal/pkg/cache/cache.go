// Package cache connects to the Redis-compatible cache server (Redis or Dragonfly).
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
)

// Config holds the connection settings read from CACHE_*.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func ConfigFromEnv() Config {
	return Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     env.GetEnv("CACHE_PORT", "6379"),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       env.GetEnvInt("CACHE_DB", 0),
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// New creates a client; it does not dial until first use.
func New(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Ping verifies the server answers within timeout.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping %s: %w", client.Options().Addr, err)
	}
	return nil
}

// HostPort splits the client address for libraries that take them separately.
func HostPort(client *redis.Client) (string, int) {
	host, portStr, err := net.SplitHostPort(client.Options().Addr)
	if err != nil {
		return "localhost", 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}
	return host, port
}
