package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddlewareMemoryFallback(t *testing.T) {
	cfg := FormRateLimitConfig(2, time.Minute)
	cfg.Client = func() *goredis.Client { return nil }

	r := gin.New()
	r.POST("/forms/contact", RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/forms/contact", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post("203.0.113.7").Code)
	w := post("203.0.113.7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = post("203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, post("198.51.100.4").Code)
}

func TestFormRateLimitConfigDefaults(t *testing.T) {
	cfg := FormRateLimitConfig(0, 0)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.Equal(t, "rl:form:", cfg.KeyPrefix)
}

func TestMemoryStoreWindow(t *testing.T) {
	store := &memoryStore{}
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	count, resetAt := store.hit("k", time.Minute, now)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(time.Minute), resetAt)

	count, _ = store.hit("k", time.Minute, now.Add(30*time.Second))
	assert.Equal(t, 2, count)

	count, resetAt = store.hit("k", time.Minute, now.Add(61*time.Second))
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(121*time.Second), resetAt)
}
