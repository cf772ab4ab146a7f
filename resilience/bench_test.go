package resilience

import (
	"context"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Execute_Closed measures happy path execution.
func BenchmarkCircuitBreaker_Execute_Closed(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 100,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkCircuitBreaker_Concurrent measures parallel execution.
func BenchmarkCircuitBreaker_Concurrent(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1000,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = cb.Execute(ctx, func(ctx context.Context) error {
				return nil
			})
		}
	})
}

// BenchmarkRateLimiter_Allow_FixedWindow measures fixed window admission.
func BenchmarkRateLimiter_Allow_FixedWindow(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{
		MaxCalls:   1 << 30,
		TimeWindow: time.Minute,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rl.Allow()
	}
}

// BenchmarkRateLimiter_Allow_SlidingWindow measures timestamp tracking cost.
func BenchmarkRateLimiter_Allow_SlidingWindow(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{
		MaxCalls:   1 << 30,
		TimeWindow: time.Millisecond,
		Strategy:   SlidingWindow,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rl.Allow()
	}
}

// BenchmarkRetry_NoRetries measures retry with immediate success.
func BenchmarkRetry_NoRetries(b *testing.B) {
	r := NewRetry(RetryConfig{
		MaxAttempts:   3,
		BackoffFactor: 100 * time.Millisecond,
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkRegistry_Breaker measures registry lookup on the hot path.
func BenchmarkRegistry_Breaker(b *testing.B) {
	r := NewRegistry(RegistryConfig{})
	r.Breaker("users.get")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Breaker("users.get")
	}
}

// BenchmarkBulkhead_Execute measures semaphore acquire/release.
func BenchmarkBulkhead_Execute(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1000,
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}
