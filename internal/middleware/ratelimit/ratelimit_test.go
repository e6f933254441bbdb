package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/config"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func serve(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.POST("/auth/login", okHandler, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	return rec
}

func TestTokenBucket_DisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Capacity: 1}
	for i := 0; i < 3; i++ {
		rec := serve(t, TokenBucket(cfg, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := serve(t, TokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code, "nil client disables the limiter")
}

func TestTokenBucket_FailsOpenWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
	rec := serve(t, TokenBucket(cfg, rdb))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestParseDecision(t *testing.T) {
	d, err := parseDecision([]any{int64(1), int64(4), int64(0)})
	require.NoError(t, err)
	assert.True(t, d.allowed)
	assert.Equal(t, int64(4), d.remaining)

	d, err = parseDecision([]any{int64(0), int64(0), "1500"})
	require.NoError(t, err)
	assert.False(t, d.allowed)
	assert.Equal(t, int64(1500), d.retryMs)

	_, err = parseDecision("nope")
	require.Error(t, err)
}

func TestBucketKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /auth/login", bucketKey("rl", c))
}
