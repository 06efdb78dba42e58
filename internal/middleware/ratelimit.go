// ratelimit.go limits how often one client can ask the model, using a token bucket.
//
// How token bucket works:
// - Each client IP gets a "bucket" with N tokens (N = asks per hour)
// - Each ask consumes 1 token
// - Tokens refill at a steady rate (N tokens per hour)
// - If the bucket is empty, the request is rejected with 429 Too Many Requests
//
// Only the ask endpoint is limited: browsing chapters and pages costs nothing,
// but every ask spends model quota.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/models"
)

// RateLimiter tracks ask rates per client.
type RateLimiter struct {
	// Go Pattern: sync.Mutex guards the map; every check also writes
	// (refill + consume), so a plain Mutex is enough.
	mu      sync.Mutex
	buckets map[string]*bucket
	perHour int
	now     func() time.Time
}

// bucket tracks the token state for a single client.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// allowResult contains the result of a rate limit check,
// including header information for the response.
type allowResult struct {
	allowed   bool
	remaining float64
	limit     float64
}

// NewRateLimiter creates a limiter allowing perHour requests per client per hour.
func NewRateLimiter(perHour int) *RateLimiter {
	if perHour <= 0 {
		perHour = 60
	}
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		perHour: perHour,
		now:     time.Now,
	}

	// Start background cleanup goroutine
	go rl.cleanup()

	return rl
}

// RateLimit returns Gin middleware that enforces the per-client limit.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := rl.allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", formatFloat(result.limit))
		if !result.allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many questions in a short time. Try again later.",
				Code:    http.StatusTooManyRequests,
			})
			return
		}
		c.Header("X-RateLimit-Remaining", formatFloat(result.remaining))

		c.Next()
	}
}

// allow checks if a request should be allowed, consuming a token if so.
func (rl *RateLimiter) allow(clientID string) allowResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit := float64(rl.perHour)
	now := rl.now()

	b, exists := rl.buckets[clientID]
	if !exists {
		b = &bucket{tokens: limit, lastRefill: now}
		rl.buckets[clientID] = b
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * limit / 3600.0
	if b.tokens > limit {
		b.tokens = limit
	}
	b.lastRefill = now

	if b.tokens < 1.0 {
		return allowResult{allowed: false, remaining: 0, limit: limit}
	}

	b.tokens--
	return allowResult{allowed: true, remaining: b.tokens, limit: limit}
}

// cleanup periodically removes stale buckets to prevent memory leaks.
func (rl *RateLimiter) cleanup() {
	// Go Pattern: time.Ticker sends values at regular intervals.
	// Always defer ticker.Stop() to release resources.
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for id, b := range rl.buckets {
			// A bucket idle for an hour is full again; drop it.
			if now.Sub(b.lastRefill) > time.Hour {
				delete(rl.buckets, id)
			}
		}
		rl.mu.Unlock()
	}
}

// formatFloat converts a float to a string for headers.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.0f", f)
}
