package health

import (
	"context"
	"fmt"
	"time"
)

// Pinger is anything that can report its own liveness with a single probe.
// API clients and repositories implement this with a HealthCheck method.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// PingerFunc adapts a plain function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

// HealthCheck calls the function.
func (f PingerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// PingChecker wraps a Pinger as a Checker. A probe that completes within
// DegradedAfter is healthy, a slower success is degraded, a failure is
// unhealthy.
type PingChecker struct {
	name   string
	pinger Pinger
	config PingCheckerConfig
}

// PingCheckerConfig configures a PingChecker.
type PingCheckerConfig struct {
	// Timeout bounds each probe. Default: 5s.
	Timeout time.Duration

	// DegradedAfter marks a slow success as degraded. Zero disables
	// the latency check.
	DegradedAfter time.Duration
}

// NewPingChecker creates a ping checker with default configuration.
func NewPingChecker(name string, pinger Pinger) *PingChecker {
	return NewPingCheckerWithConfig(name, pinger, PingCheckerConfig{})
}

// NewPingCheckerWithConfig creates a ping checker with the given configuration.
func NewPingCheckerWithConfig(name string, pinger Pinger, config PingCheckerConfig) *PingChecker {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &PingChecker{name: name, pinger: pinger, config: config}
}

// Name returns the name of this checker.
func (p *PingChecker) Name() string {
	return p.name
}

// Check probes the underlying Pinger.
func (p *PingChecker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	err := p.pinger.HealthCheck(ctx)
	elapsed := time.Since(start)

	var result Result
	switch {
	case err != nil:
		result = Unhealthy(fmt.Sprintf("%s probe failed", p.name), err)
	case p.config.DegradedAfter > 0 && elapsed > p.config.DegradedAfter:
		result = Degraded(fmt.Sprintf("%s probe slow: %v", p.name, elapsed))
	default:
		result = Healthy(fmt.Sprintf("%s reachable", p.name))
	}
	result.Duration = elapsed
	return result
}
