package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is blocking all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the service recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long to wait before attempting recovery.
	// Default: 30 seconds
	RecoveryTimeout time.Duration

	// SuccessThreshold is the number of consecutive probe successes required
	// to close the circuit from half-open.
	// Default: 1
	SuccessThreshold int

	// CallTimeout marks a call as failed for breaker accounting when its
	// duration exceeds this value, even if the call itself returned nil.
	// Zero disables duration accounting.
	CallTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures. A context cancellation of an
	// in-flight call therefore counts as a failure: the call consumed a slot
	// and its outcome is unknown.
	IsFailure func(err error) bool
}

// CircuitBreaker implements the circuit breaker pattern with a single-probe
// half-open state.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	probing   bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker.
//
// While open, calls fail with ErrCircuitOpen without invoking op. Once the
// recovery timeout elapses, exactly one caller wins the half-open probe;
// concurrent losers keep failing fast until the probe resolves.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	probe, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	start := time.Now()
	err = op(ctx)
	cb.afterRequest(probe, err, time.Since(start))
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.openedAt = time.Time{}
	cb.probing = false

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

// beforeRequest gates the call. It reports whether this call is the
// half-open probe.
func (cb *CircuitBreaker) beforeRequest() (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.openedAt) < cb.config.RecoveryTimeout {
			return false, ErrCircuitOpen
		}
		// Recovery timeout elapsed; this caller wins the probe transition.
		cb.setStateLocked(StateHalfOpen)
		cb.probing = true
		return true, nil

	case StateHalfOpen:
		if cb.probing {
			// A probe is already in flight.
			return false, ErrCircuitOpen
		}
		cb.probing = true
		return true, nil
	}

	return false, nil
}

func (cb *CircuitBreaker) afterRequest(probe bool, err error, duration time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe {
		cb.probing = false
	}

	failed := cb.config.IsFailure(err)
	if !failed && cb.config.CallTimeout > 0 && duration > cb.config.CallTimeout {
		// Slow call: the caller still gets the result, the breaker counts it
		// as a failure.
		failed = true
	}

	switch cb.state {
	case StateClosed:
		if failed {
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.openLocked()
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if failed {
			cb.openLocked()
		} else {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.setStateLocked(StateClosed)
				cb.failures = 0
				cb.successes = 0
				cb.openedAt = time.Time{}
			}
		}
	}
}

func (cb *CircuitBreaker) openLocked() {
	cb.openedAt = time.Now()
	cb.failures = 0
	cb.successes = 0
	cb.setStateLocked(StateOpen)
}

func (cb *CircuitBreaker) setStateLocked(state State) {
	if cb.state == state {
		return
	}
	oldState := cb.state
	cb.state = state
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, state)
	}
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:                cb.state,
		ConsecutiveFailures:  cb.failures,
		ConsecutiveSuccesses: cb.successes,
		OpenedAt:             cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	OpenedAt             time.Time
}
