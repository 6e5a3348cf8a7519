package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window request limit per derived key. With a
// Redis client the window is shared across instances (INCR + EXPIRE); without
// one it degrades to a per-process map. A Redis error fails open to the
// in-process bucket rather than rejecting logins.
type RateLimiter struct {
	limit  int
	window time.Duration

	rdb *redis.Client

	mu        sync.Mutex
	clients   map[string]*clientBucket
	nextSweep time.Time
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		rdb:     rdb,
		clients: make(map[string]*clientBucket),
	}
}

// Middleware returns a gin.HandlerFunc that enforces the limit for a derived key.
func (rl *RateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		allowed, retryAfter := rl.allow(c.Request.Context(), key)

		if !allowed {
			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			abortEnvelope(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int) {
	if rl.rdb != nil {
		ok, retryAfter, err := rl.allowRedis(ctx, key)

		if err == nil {
			return ok, retryAfter
		}
	}

	return rl.allowLocal(key)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (bool, int, error) {
	rkey := "ratelimit:" + key

	count, err := rl.rdb.Incr(ctx, rkey).Result()

	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.rdb.Expire(ctx, rkey, rl.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.limit) {
		ttl, err := rl.rdb.TTL(ctx, rkey).Result()

		if err != nil {
			return false, 0, err
		}

		return false, int(ttl.Seconds()), nil
	}

	return true, 0, nil
}

func (rl *RateLimiter) allowLocal(key string) (bool, int) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]

	if !ok || now.After(b.windowEnd) {
		rl.sweepLocked(now)

		rl.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(rl.window),
		}

		return true, 0
	}

	if b.count >= rl.limit {
		return false, int(time.Until(b.windowEnd).Seconds())
	}

	b.count++

	return true, 0
}

// sweepLocked drops buckets whose window has closed, at most once per
// window. Without it the fallback map keeps one entry per client IP for the
// life of the process. Caller must hold mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Before(rl.nextSweep) {
		return
	}

	rl.nextSweep = now.Add(rl.window)

	for k, b := range rl.clients {
		if now.After(b.windowEnd) {
			delete(rl.clients, k)
		}
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	// Normalize a host:port form if one slips through
	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
