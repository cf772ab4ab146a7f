package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimitStrategy selects how the call window is tracked.
type RateLimitStrategy int

const (
	// FixedWindow resets the counter at fixed window boundaries.
	FixedWindow RateLimitStrategy = iota
	// SlidingWindow bounds calls within any moving interval of TimeWindow.
	SlidingWindow
)

// String returns the string representation of the strategy.
func (s RateLimitStrategy) String() string {
	switch s {
	case FixedWindow:
		return "fixed-window"
	case SlidingWindow:
		return "sliding-window"
	default:
		return "unknown"
	}
}

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// MaxCalls is the number of calls allowed per window.
	// Default: 100
	MaxCalls int

	// TimeWindow is the window length.
	// Default: 1 second
	TimeWindow time.Duration

	// Strategy selects fixed or sliding window tracking.
	// Default: FixedWindow
	Strategy RateLimitStrategy

	// FailFast rejects immediately with a *RateLimitError carrying a
	// RetryAfter hint instead of the default wait-then-reject contract.
	FailFast bool
}

// RateLimiter bounds call frequency over a time window.
//
// When the limit is reached the default behavior is deliberate backpressure:
// the limiter waits until the current window would elapse and then rejects
// with ErrRateLimited. It never silently admits the call into the next window
// and never blocks past the window boundary.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	windowStart time.Time
	count       int
	calls       []time.Time // sliding window only
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.MaxCalls <= 0 {
		config.MaxCalls = 100
	}
	if config.TimeWindow <= 0 {
		config.TimeWindow = time.Second
	}

	return &RateLimiter{config: config}
}

// Allow reports whether a call is admitted right now, consuming a slot when
// it is.
func (rl *RateLimiter) Allow() bool {
	_, ok := rl.tryAcquire()
	return ok
}

// Acquire admits the call or rejects it according to the limiter contract.
// The bounded wait is cancellable through ctx.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	retryAfter, ok := rl.tryAcquire()
	if ok {
		return nil
	}

	if rl.config.FailFast {
		return &RateLimitError{RetryAfter: retryAfter}
	}

	// Wait out the remainder of the window, then reject. The caller gets a
	// deterministic backpressure signal after a bounded delay.
	timer := time.NewTimer(retryAfter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrRateLimited
	}
}

// Execute runs the operation if admitted by the rate limit.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Acquire(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// tryAcquire consumes a slot when one is free. When the limit is reached it
// returns the remaining time until the current window elapses.
func (rl *RateLimiter) tryAcquire() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	if rl.config.Strategy == SlidingWindow {
		rl.pruneLocked(now)
		if len(rl.calls) < rl.config.MaxCalls {
			rl.calls = append(rl.calls, now)
			return 0, true
		}
		return rl.calls[0].Add(rl.config.TimeWindow).Sub(now), false
	}

	if rl.windowStart.IsZero() || now.Sub(rl.windowStart) >= rl.config.TimeWindow {
		rl.windowStart = now
		rl.count = 0
	}
	if rl.count < rl.config.MaxCalls {
		rl.count++
		return 0, true
	}
	return rl.windowStart.Add(rl.config.TimeWindow).Sub(now), false
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.config.TimeWindow)
	i := 0
	for i < len(rl.calls) && !rl.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.calls = append(rl.calls[:0], rl.calls[i:]...)
	}
}

// Metrics returns current rate limiter occupancy.
func (rl *RateLimiter) Metrics() RateLimiterMetrics {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	m := RateLimiterMetrics{
		Strategy:   rl.config.Strategy,
		MaxCalls:   rl.config.MaxCalls,
		TimeWindow: rl.config.TimeWindow,
	}

	if rl.config.Strategy == SlidingWindow {
		rl.pruneLocked(now)
		m.InWindow = len(rl.calls)
		if len(rl.calls) > 0 {
			m.WindowResets = rl.calls[0].Add(rl.config.TimeWindow)
		}
		return m
	}

	if !rl.windowStart.IsZero() && now.Sub(rl.windowStart) < rl.config.TimeWindow {
		m.InWindow = rl.count
		m.WindowResets = rl.windowStart.Add(rl.config.TimeWindow)
	}
	return m
}

// Reset clears the limiter's window state.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windowStart = time.Time{}
	rl.count = 0
	rl.calls = nil
}

// RateLimiterMetrics contains rate limiter occupancy statistics.
type RateLimiterMetrics struct {
	Strategy     RateLimitStrategy
	MaxCalls     int
	TimeWindow   time.Duration
	InWindow     int
	WindowResets time.Time
}
