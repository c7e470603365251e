// file: internal/server/middleware/ratelimit_test.go
// version: 3.0.0
// guid: 7b3993d7-e0fd-4376-901d-688bd7996eb1

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func limitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func hit(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewIPRateLimiter_Defaults(t *testing.T) {
	limiter := NewIPRateLimiter(0, 0)
	assert.Equal(t, rate.Every(time.Minute), limiter.every)
	assert.Equal(t, 1, limiter.burst)
	assert.Equal(t, DefaultLimiterIdleTTL, limiter.idleTTL)
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	clock := newFakeClock()
	limiter := NewIPRateLimiter(1, 1)
	limiter.now = clock.now
	router := limitedRouter(limiter)

	assert.Equal(t, http.StatusOK, hit(router, "192.0.2.1:1234").Code)

	rec := hit(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"errors":["muitas requisições"]}`, rec.Body.String())

	// Each client has its own bucket
	assert.Equal(t, http.StatusOK, hit(router, "198.51.100.3:4321").Code)
}

func TestIPRateLimiter_RetryAfterShrinksAndRefills(t *testing.T) {
	clock := newFakeClock()
	limiter := NewIPRateLimiter(2, 1)
	limiter.now = clock.now
	router := limitedRouter(limiter)

	require.Equal(t, http.StatusOK, hit(router, "192.0.2.1:1").Code)

	clock.advance(10 * time.Second)
	rec := hit(router, "192.0.2.1:1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "20", rec.Header().Get("Retry-After"))

	// A rejected request does not push the refill further out
	clock.advance(21 * time.Second)
	assert.Equal(t, http.StatusOK, hit(router, "192.0.2.1:1").Code)
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := newFakeClock()
	limiter := NewIPRateLimiter(1, 1)
	limiter.now = clock.now
	router := limitedRouter(limiter)

	hit(router, "192.0.2.1:1")
	hit(router, "192.0.2.2:1")
	assert.Equal(t, 2, limiter.Len())

	clock.advance(DefaultLimiterIdleTTL / 2)
	hit(router, "192.0.2.2:1")

	clock.advance(DefaultLimiterIdleTTL/2 + time.Second)
	assert.Equal(t, http.StatusOK, hit(router, "192.0.2.3:1").Code)
	assert.Equal(t, 2, limiter.Len(), "only the client idle past the TTL is dropped")

	// A returning client starts with a full bucket
	assert.Equal(t, http.StatusOK, hit(router, "192.0.2.1:1").Code)
}
