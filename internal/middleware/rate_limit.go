package middleware

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/cache"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"golang.org/x/time/rate"
)

const (
	visitorTTL = 10 * time.Minute
	sweepEvery = 1000
)

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	visitors *cache.TTLCache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	calls    atomic.Uint64
}

// NewRateLimiter allows requestsPerMinute sustained with the given burst
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: cache.NewTTLCache[string, *rate.Limiter](),
		limit:    rate.Limit(float64(requestsPerMinute) / 60),
		burst:    burst,
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if l.calls.Add(1)%sweepEvery == 0 {
		l.visitors.PurgeExpired()
	}
	return l.visitors.GetOrSet(key, visitorTTL, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
}

// Middleware rejects requests over the limit with 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation := l.limiter(c.ClientIP()).Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			apierrors.TooManyRequests(c, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// RateLimit is a convenience wrapper around NewRateLimiter(...).Middleware()
func RateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	return NewRateLimiter(requestsPerMinute, burst).Middleware()
}
