// Package health provides health checking primitives for API guard components.
//
// This package implements a generic health checking framework used to monitor
// the dependencies of a guarded API client: the upstream API itself and the
// repository that backs caching and audit logging. It provides interfaces for
// defining health checks and aggregating results from multiple checkers.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, or Unhealthy.
//
// Components that expose a HealthCheck(ctx) error method implement Pinger and
// can be wrapped as checkers:
//
//	check := health.NewPingChecker("upstream", client)
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("upstream down: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("upstream", health.NewPingChecker("upstream", client))
//	agg.Register("repository", health.NewPingChecker("repository", repo))
//
//	// Check all components
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
package health
