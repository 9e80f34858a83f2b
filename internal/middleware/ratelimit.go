package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/internal/handler"
)

// RateLimiter keeps one token bucket per client IP. Idle buckets expire from
// the cache after the configured TTL.
type RateLimiter struct {
	limiters *cache.Cache
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RateLimiter{
		limiters: cache.New(ttl, 2*ttl),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		ttl:      ttl,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		rl.limiters.Set(key, v, rl.ttl)
		return v.(*rate.Limiter)
	}

	l := rate.NewLimiter(rl.rate, rl.burst)
	// another request may have raced us; keep whichever landed first
	if err := rl.limiters.Add(key, l, rl.ttl); err != nil {
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
