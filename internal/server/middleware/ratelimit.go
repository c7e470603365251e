// file: internal/server/middleware/ratelimit.go
// version: 3.0.0
// guid: 2916aca8-20f2-48e6-901b-35beb7fe54e8

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jdfalk/library-catalog/internal/i18n"
)

// DefaultLimiterIdleTTL is how long a client bucket survives without requests.
const DefaultLimiterIdleTTL = 15 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the TTL are dropped, at most once per TTL period.
type IPRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	every     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows requestsPerMinute per client with the given burst.
// Values below one are raised to one.
func NewIPRateLimiter(requestsPerMinute int, burst int) *IPRateLimiter {
	requestsPerMinute = max(requestsPerMinute, 1)
	burst = max(burst, 1)
	return &IPRateLimiter{
		buckets: make(map[string]*clientBucket),
		every:   rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:   burst,
		idleTTL: DefaultLimiterIdleTTL,
		now:     time.Now,
	}
}

// Len reports how many client buckets are held.
func (r *IPRateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// reserve takes a token for ip. It returns zero when the request may proceed,
// otherwise how long the client has to wait.
func (r *IPRateLimiter) reserve(ip string) time.Duration {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= r.idleTTL {
		for key, b := range r.buckets {
			if now.Sub(b.lastSeen) > r.idleTTL {
				delete(r.buckets, key)
			}
		}
		r.lastSweep = now
	}

	b, ok := r.buckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(r.every, r.burst)}
		r.buckets[ip] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return time.Minute
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		// Rejected requests must not consume future tokens
		res.CancelAt(now)
	}
	return delay
}

// Middleware answers 429 with Retry-After once a client runs out of tokens.
func (r *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if wait := r.reserve(ip); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			AbortWithError(c, http.StatusTooManyRequests, i18n.MsgTooManyRequests)
			return
		}
		c.Next()
	}
}
