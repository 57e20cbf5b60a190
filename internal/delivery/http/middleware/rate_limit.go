package middleware

import (
	"context"
	"fmt"
	"go-agency-backend/internal/delivery/http/response"
	"go-agency-backend/pkg/redis"
	"go-agency-backend/pkg/security"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Key extractor, client IP when nil
	KeyFunc func(*gin.Context) string
	// Redis key prefix
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
	// Redis client source, pkg/redis singleton when nil
	Client func() *goredis.Client
}

// windowCounter is the in-memory fallback entry for one key
type windowCounter struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryStore counts requests per key when Redis is not reachable
type memoryStore struct {
	entries sync.Map
	calls   uint64
	mu      sync.Mutex
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// sweepEvery is how many fallback hits pass between expired-entry sweeps
const sweepEvery = 1024

// FormRateLimitConfig limits form posts per client IP
func FormRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:form:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Uses Redis when available, falls back to in-memory when not.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Client == nil {
		config.Client = redis.Client
	}
	store := &memoryStore{}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time

		if client := config.Client(); client != nil {
			var err error
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), client, fullKey, config)
			if err != nil {
				if config.FailClosed {
					logRateLimitError(c, "redis_error", err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = store.hit(fullKey, config.Window, now)
			}
		} else {
			count, resetAt = store.hit(fullKey, config.Window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := max(int(time.Until(resetAt).Seconds()), 1)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logRateLimitTriggered(c)

			response.Error(c, http.StatusTooManyRequests, "Too many submissions. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(config.Limit-count, 0)))
		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// hit records one request for key in a fixed window
func (s *memoryStore) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	s.maybeSweep(now)

	entryI, _ := s.entries.LoadOrStore(key, &windowCounter{resetAt: now.Add(window)})
	entry := entryI.(*windowCounter)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

func (s *memoryStore) maybeSweep(now time.Time) {
	s.mu.Lock()
	s.calls++
	due := s.calls%sweepEvery == 0
	s.mu.Unlock()
	if !due {
		return
	}

	s.entries.Range(func(key, value interface{}) bool {
		entry := value.(*windowCounter)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			s.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

func logRateLimitTriggered(c *gin.Context) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString("RequestID"),
		c.FullPath(),
	)
}

func logRateLimitError(c *gin.Context, errorType string, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString("RequestID"),
		Details: map[string]interface{}{
			"error_type": errorType,
			"error":      err.Error(),
		},
	})
}
