package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

func TestRateLimiterWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Limit: 1}, zap.NewNop())
	assert.False(t, rl.Enabled())
	assert.Equal(t, time.Minute, rl.Config().Window)
	remaining, _, err := rl.GetRemainingRequests(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	router := gin.New()
	router.GET("/", rl.RateLimitMiddleware(), ok)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/", nil).Code)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	core, logs := observer.New(zap.WarnLevel)
	rl := NewRateLimiter(client, RateLimitConfig{Limit: 1, Window: time.Minute}, zap.New(core))
	router := gin.New()
	router.GET("/", rl.RateLimitMiddleware(), ok)

	w := perform(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	assert.Equal(t, 1, logs.FilterMessage("rate limit check failed").Len())
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "test"}, zap.NewNop())
	router := gin.New()
	router.GET("/", rl.RateLimitMiddleware(), ok)

	first := perform(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/", nil).Code)

	third := perform(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))

	// 192.0.2.1 is what httptest uses as the remote address.
	remaining, _, err := rl.GetRemainingRequests(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	assert.Zero(t, remaining)

	remaining, _, err = rl.GetRemainingRequests(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/", ok)

	w := perform(router, http.MethodOptions, "/", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(router, http.MethodGet, "/", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}))
	router.GET("/", ok)

	w := perform(router, http.MethodGet, "/", map[string]string{"Origin": "http://anywhere.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestID(), Logger(zap.New(core), "/health"))
	router.GET("/health", ok)
	router.GET("/pans", ok)
	router.GET("/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "nope"}) })

	w := perform(router, http.MethodGet, "/pans?q=cercle", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = perform(router, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	perform(router, http.MethodGet, "/missing", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request completed", entries[0].Message)
	assert.Equal(t, "/pans?q=cercle", entries[0].ContextMap()["path"])
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "client error", entries[1].Message)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := gin.New()
	router.Use(RequestID(), Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("oven on fire") })

	w := perform(router, http.MethodGet, "/boom", map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","request_id":"req-1"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/pans/:id", ok)

	perform(router, http.MethodGet, "/pans/1", nil)
	perform(router, http.MethodGet, "/pans/2", nil)
	perform(router, http.MethodGet, "/nowhere", nil)

	count, err := testutil.GatherAndCount(m.Registry(), "pastry_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
