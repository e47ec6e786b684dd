package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter limits requests per key (client IP) over a sliding window.
type RateLimiter struct {
	mu     sync.Mutex
	seen   map[string][]time.Time
	limit  int
	window time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		seen:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go r.sweep()
	return r
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	recent := prune(r.seen[key], now.Add(-r.window))
	if len(recent) >= r.limit {
		r.seen[key] = recent
		return false
	}
	r.seen[key] = append(recent, now)
	return true
}

func (r *RateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for k, times := range r.seen {
			recent := prune(times, cutoff)
			if len(recent) == 0 {
				delete(r.seen, k)
			} else {
				r.seen[k] = recent
			}
		}
		r.mu.Unlock()
	}
}

func prune(times []time.Time, cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
