// pkg/input/ratelimit.go
package input

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket per action. Terminals deliver key repeat as
// a burst of events, so warp steps are limited to a few per window.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	buckets     map[Action]*bucket
	now         func() time.Time
	mu          sync.Mutex
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter allows maxRequests of each action per window
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		buckets:     make(map[Action]*bucket),
		now:         time.Now,
	}
}

// Allow consumes a token for a and reports whether one was available
func (rl *RateLimiter) Allow(a Action) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[a]
	if !ok {
		b = &bucket{tokens: rl.maxRequests, lastRefill: now}
		rl.buckets[a] = b
	}

	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 && b.tokens < rl.maxRequests {
		refill := int(float64(rl.maxRequests) * float64(elapsed) / float64(rl.window))
		if refill > 0 {
			b.tokens = min(b.tokens+refill, rl.maxRequests)
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}
