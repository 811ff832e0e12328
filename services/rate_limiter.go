package services

import (
	"sync"
	"time"
)

// RateLimiter bounds outbound feed calls to at most maxCalls per sliding
// window. It keeps a ring buffer of recent call timestamps and a caller-
// injectable clock, so the component performing fetches owns its limiter
// rather than sharing module-level mutable state.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	now      func() time.Time

	// ring buffer of the last maxCalls call timestamps
	stamps []time.Time
	head   int
	count  int
}

// NewRateLimiter creates a limiter allowing maxCalls per window.
func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		stamps:   make([]time.Time, maxCalls),
	}
}

// WithClock replaces the time source. Tests use this to drive the window.
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

// Allow records a call and returns true if it fits in the current window.
// A rejected call is not recorded.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.count == r.maxCalls {
		oldest := r.stamps[r.head]
		if now.Sub(oldest) < r.window {
			return false
		}
		// Oldest call aged out; reuse its slot.
		r.stamps[r.head] = now
		r.head = (r.head + 1) % r.maxCalls
		return true
	}

	r.stamps[(r.head+r.count)%r.maxCalls] = now
	r.count++
	return true
}

// NextAllowed returns how long until the next call would be admitted. Zero
// means a call is admissible now.
func (r *RateLimiter) NextAllowed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count < r.maxCalls {
		return 0
	}
	wait := r.window - r.now().Sub(r.stamps[r.head])
	if wait < 0 {
		return 0
	}
	return wait
}
