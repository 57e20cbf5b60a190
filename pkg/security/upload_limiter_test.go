package security

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestUploadLimiterWithoutRedis(t *testing.T) {
	ul := NewUploadLimiter(0, 0)
	ul.client = func() *goredis.Client { return nil }

	assert.Equal(t, 5, ul.maxPerMinute)
	assert.Equal(t, 20, ul.maxPerDay)

	allowed, retryAfter, err := ul.AllowUpload(context.Background(), "203.0.113.7", "jane@example.com")
	assert.True(t, allowed, "uploads fail open without Redis")
	assert.Zero(t, retryAfter)
	assert.Error(t, err)
}
