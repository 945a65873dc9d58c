package llmcall

import (
	"math"
	"sync"
	"time"
)

// RateLimiter is a thread-safe token bucket gating outbound calls. The
// bucket starts full with capacity tokens and refills continuously at
// capacity tokens per minute.
type RateLimiter struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimitStatus reports the current bucket state.
type RateLimitStatus struct {
	Remaining      int           `json:"remaining"`
	LimitPerMinute int           `json:"limit_per_minute"`
	ResetIn        time.Duration `json:"reset_in"`
	Full           bool          `json:"full"`
}

// NewRateLimiter creates a limiter allowing requestsPerMinute calls per
// minute. Values below 1 are clamped to 1.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &RateLimiter{
		capacity:   float64(requestsPerMinute),
		refillRate: float64(requestsPerMinute) / 60.0,
		tokens:     float64(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

// refill adds tokens for the elapsed time. Called with mu held.
func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens = math.Min(r.capacity, r.tokens+elapsed*r.refillRate)
	r.lastRefill = now
}

// Allow consumes one token if available and reports whether the call may
// proceed.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(time.Now())
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// Status returns the current bucket state without consuming a token.
func (r *RateLimiter) Status() RateLimitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(time.Now())

	var resetIn time.Duration
	if r.tokens < 1 {
		resetIn = time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
	}

	return RateLimitStatus{
		Remaining:      int(r.tokens),
		LimitPerMinute: int(r.capacity),
		ResetIn:        resetIn,
		Full:           r.tokens >= r.capacity,
	}
}

// TimeUntilAvailable returns how long until one token is available. Zero
// means a call may proceed now.
func (r *RateLimiter) TimeUntilAvailable() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(time.Now())
	if r.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
}
