package security

import (
	"context"
	"fmt"
	"go-agency-backend/pkg/redis"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps resume uploads with a Redis sliding window, per client
// IP per minute and per applicant email per day
type UploadLimiter struct {
	maxPerMinute int
	maxPerDay    int
	client       func() *goredis.Client
}

// Lua script for sliding window rate limiting
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if rate limited
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)

if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter creates an upload rate limiter
// Default: 5 uploads/min per IP, 20 uploads/day per applicant
func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 5
	}
	if perDay <= 0 {
		perDay = 20
	}
	return &UploadLimiter{
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		client:       redis.Client,
	}
}

// AllowUpload checks if a resume upload is allowed.
// Returns (allowed, retryAfterSeconds, error).
// Without Redis it fails open so applicants are never blocked by an outage.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, email string) (bool, int, error) {
	client := ul.client()
	if client == nil {
		return true, 0, fmt.Errorf("rate limiter unavailable - Redis not connected")
	}

	now := time.Now().Unix()

	ipKey := fmt.Sprintf("ratelimit:resume:ip:%s", ip)
	allowed, err := ul.checkLimit(ctx, client, ipKey, ul.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		emailKey := fmt.Sprintf("ratelimit:resume:email:%s", HashValue(email))
		allowed, err = ul.checkLimit(ctx, client, emailKey, ul.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

// checkLimit performs the atomic sliding window rate limit check
func (ul *UploadLimiter) checkLimit(ctx context.Context, client *goredis.Client, key string, limit, window int, now int64) (bool, error) {
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, limit, window, now).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}
