package resilience

import "sync"

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Breaker is the default circuit breaker config for new operations.
	Breaker CircuitBreakerConfig

	// Limiter is the default rate limiter config for new operations.
	Limiter RateLimiterConfig

	// OnStateChange is called with the operation key on every breaker
	// transition, in addition to any per-breaker hook.
	OnStateChange func(operation string, from, to State)
}

// Registry owns the circuit breaker and rate limiter instances of one
// service, keyed by operation. Instances are created lazily and live for the
// registry's lifetime; two registries never share state, which keeps
// lifecycle and test isolation explicit.
type Registry struct {
	config RegistryConfig

	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
	limiters map[string]*RateLimiter
}

// NewRegistry creates an empty registry.
func NewRegistry(config RegistryConfig) *Registry {
	return &Registry{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
		limiters: make(map[string]*RateLimiter),
	}
}

// Breaker returns the circuit breaker for the operation, creating it from
// the default config on first use.
func (r *Registry) Breaker(operation string) *CircuitBreaker {
	return r.BreakerWith(operation, r.config.Breaker)
}

// BreakerWith returns the circuit breaker for the operation, creating it
// from the given config on first use. An existing instance is returned
// unchanged: configs are immutable once an instance exists.
func (r *Registry) BreakerWith(operation string, config CircuitBreakerConfig) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[operation]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[operation]; ok {
		return cb
	}

	if hook := r.config.OnStateChange; hook != nil {
		inner := config.OnStateChange
		config.OnStateChange = func(from, to State) {
			if inner != nil {
				inner(from, to)
			}
			hook(operation, from, to)
		}
	}

	cb = NewCircuitBreaker(config)
	r.breakers[operation] = cb
	return cb
}

// Limiter returns the rate limiter for the operation, creating it from the
// default config on first use.
func (r *Registry) Limiter(operation string) *RateLimiter {
	return r.LimiterWith(operation, r.config.Limiter)
}

// LimiterWith returns the rate limiter for the operation, creating it from
// the given config on first use.
func (r *Registry) LimiterWith(operation string, config RateLimiterConfig) *RateLimiter {
	r.mu.RLock()
	rl, ok := r.limiters[operation]
	r.mu.RUnlock()
	if ok {
		return rl
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rl, ok := r.limiters[operation]; ok {
		return rl
	}

	rl = NewRateLimiter(config)
	r.limiters[operation] = rl
	return rl
}

// Snapshot captures the state of every registered instance.
func (r *Registry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := RegistrySnapshot{
		Breakers: make(map[string]CircuitBreakerMetrics, len(r.breakers)),
		Limiters: make(map[string]RateLimiterMetrics, len(r.limiters)),
	}
	for op, cb := range r.breakers {
		snap.Breakers[op] = cb.Metrics()
	}
	for op, rl := range r.limiters {
		snap.Limiters[op] = rl.Metrics()
	}
	return snap
}

// RegistrySnapshot is a point-in-time view of all registered instances.
type RegistrySnapshot struct {
	Breakers map[string]CircuitBreakerMetrics
	Limiters map[string]RateLimiterMetrics
}
