// Package resilience provides the failure-handling primitives used to guard
// outbound VK API calls.
//
// This package implements the stateful protection patterns; composition into
// a full call pipeline lives in package guard.
//
// # Patterns
//
//   - Circuit Breaker: per-operation state machine that fails fast while a
//     dependency is unhealthy and probes it with a single call once the
//     recovery timeout elapses.
//
//   - Rate Limiter: bounds call frequency over a fixed or sliding window.
//     When the limit is hit it waits out the current window and then rejects,
//     giving callers a deterministic backpressure signal; a fail-fast mode
//     rejects immediately with a retry-after hint.
//
//   - Retry: re-invokes failed operations with capped exponential backoff,
//     honoring a retryability classifier.
//
//   - Timeout: bounds a single call's wall-clock duration.
//
//   - Bulkhead: limits concurrent operations to prevent resource exhaustion.
//
// # Usage
//
// Each pattern can be used independently:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  30 * time.Second,
//	    SuccessThreshold: 2,
//	})
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return callRemoteAPI(ctx)
//	})
//
// Services that guard many operations own a Registry, which maps each
// operation key to its breaker and limiter instance so unrelated operations
// never contend on shared state.
package resilience
