package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New builds a Redis client for the shared rate-limit window. Returns nil
// when no address is configured, in which case callers fall back to
// per-process limiting.
func New(cfg Config) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Ping checks connectivity; used by readiness.
func Ping(ctx context.Context, c *redis.Client) error {
	if c == nil {
		return nil
	}

	return c.Ping(ctx).Err()
}
