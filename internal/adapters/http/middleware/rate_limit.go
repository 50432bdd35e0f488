package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
)

// RateLimitConfig tunes the per-client request budget.
type RateLimitConfig struct {
	// Limit is the number of requests allowed per Window.
	Limit int
	// Window is the fixed budget window.
	Window time.Duration
	// KeyFunc derives the limiting key; defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// Redis enables the distributed limiter when set; otherwise an
	// in-process fixed window is used (single-replica deployments only).
	Redis *redis.Client
	// Logger for limiter backend errors.
	Logger *slog.Logger
}

// DefaultRateLimitConfig is the default write budget: 500 requests per
// 15 minutes per client.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  500,
		Window: 15 * time.Minute,
	}
}

// limiter is the backend contract shared by both implementations.
type limiter interface {
	allow(ctx context.Context, key string) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

// RateLimit enforces the configured budget. Backend failures fail open: a
// broken Redis must not take the wallet API down with it.
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var backend limiter
	if config.Redis != nil {
		backend = &redisLimiter{client: config.Redis, limit: config.Limit, window: config.Window}
	} else {
		backend = newMemoryLimiter(config.Limit, config.Window)
	}

	return func(c *gin.Context) {
		allowed, remaining, retryAfter, err := backend.allow(c.Request.Context(), config.KeyFunc(c))
		if err != nil {
			logger.Warn("rate limiter backend error; failing open", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", config.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			common.Fail(c, http.StatusTooManyRequests, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ---------------------------------------------------------------------------
// In-memory fixed window

type memoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	ml := &memoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go ml.cleanup()
	return ml
}

func (ml *memoryLimiter) allow(_ context.Context, key string) (bool, int, time.Duration, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	b, exists := ml.buckets[key]
	if !exists || now.Sub(b.lastReset) >= ml.window {
		ml.buckets[key] = &bucket{tokens: ml.limit - 1, lastReset: now}
		return true, ml.limit - 1, ml.window, nil
	}

	retryAfter := ml.window - now.Sub(b.lastReset)
	if b.tokens <= 0 {
		return false, 0, retryAfter, nil
	}
	b.tokens--
	return true, b.tokens, retryAfter, nil
}

// cleanup drops stale buckets so the map does not grow unbounded.
func (ml *memoryLimiter) cleanup() {
	ticker := time.NewTicker(ml.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		ml.mu.Lock()
		now := time.Now()
		for key, b := range ml.buckets {
			if now.Sub(b.lastReset) > ml.window*2 {
				delete(ml.buckets, key)
			}
		}
		ml.mu.Unlock()
	}
}

// ---------------------------------------------------------------------------
// Redis fixed window

// redisLimiter counts per-key requests with INCR and an expiring window key,
// so the budget is shared across replicas.
type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func (rl *redisLimiter) allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	redisKey := "ratelimit:" + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, 0, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, 0, err
		}
	}

	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}

	remaining := rl.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.limit), remaining, ttl, nil
}
