package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vkguard/vkguard/cache"
	"github.com/vkguard/vkguard/health"
	"github.com/vkguard/vkguard/observe"
	"github.com/vkguard/vkguard/resilience"
)

// ErrNilClient is returned by NewService when no client is given.
var ErrNilClient = errors.New("guard: nil client")

// ErrNoRepository is returned when a cache stage is requested on a service
// built without a repository.
var ErrNoRepository = errors.New("guard: no repository configured")

// ServiceConfig holds the per-service defaults applied to every operation
// pipeline. Zero values fall back to the defaults of the underlying
// resilience primitives.
type ServiceConfig struct {
	// Name is the logical service name used in telemetry.
	Name string

	// Breaker is the default circuit breaker config for new operations.
	Breaker resilience.CircuitBreakerConfig

	// Limiter is the default rate limiter config for new operations.
	Limiter resilience.RateLimiterConfig

	// Retry is the default retry policy for new operations.
	Retry resilience.RetryConfig

	// Timeout bounds each upstream attempt.
	Timeout time.Duration

	// Observer supplies telemetry. Nil means noop telemetry.
	Observer observe.Observer
}

// Service ties a Client and a Repository together under shared resilience
// state. Each operation name owns one circuit breaker and one rate limiter,
// created on first use from the service defaults, so concurrent calls to the
// same operation share failure history.
type Service struct {
	name       string
	client     Client
	repo       Repository
	registry   *resilience.Registry
	recorder   *Recorder
	cacheStore cache.Cache
	health     *health.Aggregator
	timeout    time.Duration
	retryCfg   resilience.RetryConfig

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

// NewService creates a Service. The repository is optional; without one,
// caching and audit persistence are disabled but telemetry still runs.
func NewService(client Client, repo Repository, config ServiceConfig) (*Service, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	logger := observe.NewNoopLogger()
	metrics := observe.NewNoopMetrics()
	tracer := observe.NewNoopTracer()
	if config.Observer != nil {
		logger = config.Observer.Logger()
		tracer = observe.NewTracer(config.Observer.Tracer())
		m, err := observe.NewMetrics(config.Observer.Meter())
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	recorder := NewRecorder(RecorderConfig{
		Repository: repo,
		Logger:     logger,
		Metrics:    metrics,
		Tracer:     tracer,
		Service:    config.Name,
	})

	registry := resilience.NewRegistry(resilience.RegistryConfig{
		Breaker: config.Breaker,
		Limiter: config.Limiter,
		OnStateChange: func(operation string, from, to resilience.State) {
			recorder.BreakerTransition(context.Background(), operation, from.String(), to.String())
		},
	})

	agg := health.NewAggregator()
	agg.Register("upstream", health.NewPingChecker("upstream", client))

	s := &Service{
		name:      config.Name,
		client:    client,
		repo:      repo,
		registry:  registry,
		recorder:  recorder,
		health:    agg,
		timeout:   config.Timeout,
		retryCfg:  config.Retry,
		pipelines: make(map[string]*Pipeline),
	}

	if repo != nil {
		s.cacheStore = NewRepoCache(repo)
		agg.Register("repository", health.NewPingChecker("repository", repo))
	}
	return s, nil
}

// Operation builds a pipeline for the named API method with the service
// defaults (audit logging, retry, timeout, shared rate limiter and circuit
// breaker) plus any extra stages. The pipeline is remembered, so later Call
// invocations for the same name reuse it.
func (s *Service) Operation(name string, opts ...Option) (*Pipeline, error) {
	all := []Option{
		WithLogging(s.recorder),
		WithRetry(s.retryCfg),
		WithTimeout(s.timeout),
		WithRateLimit(s.registry.Limiter(name)),
		WithCircuitBreaker(s.registry.Breaker(name)),
	}
	all = append(all, opts...)

	p, err := New(name, func(ctx context.Context, params Params) ([]byte, error) {
		return s.client.MakeRequest(ctx, name, params)
	}, all...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pipelines[name] = p
	s.mu.Unlock()
	return p, nil
}

// Cached returns an option that enables read-through caching backed by the
// service repository. The key template renders "{param}" placeholders from
// the call parameters.
func (s *Service) Cached(keyTemplate string, ttl time.Duration) Option {
	return func(p *Pipeline) error {
		if s.cacheStore == nil {
			return ErrNoRepository
		}
		return WithCache(s.cacheStore, cache.DecoratorConfig{
			KeyTemplate: keyTemplate,
			TTL:         ttl,
		})(p)
	}
}

// Call executes the named operation through its pipeline, building a default
// pipeline on first use.
func (s *Service) Call(ctx context.Context, method string, params Params) ([]byte, error) {
	s.mu.Lock()
	p, ok := s.pipelines[method]
	s.mu.Unlock()

	if !ok {
		var err error
		p, err = s.Operation(method)
		if err != nil {
			return nil, err
		}
	}
	return p.Execute(ctx, params)
}

// HealthStatus is the aggregated health of the service dependencies.
type HealthStatus struct {
	Status     health.Status
	Components map[string]health.Result
}

// HealthCheck probes the upstream client and the repository concurrently.
func (s *Service) HealthCheck(ctx context.Context) HealthStatus {
	results := s.health.CheckAll(ctx)
	return HealthStatus{
		Status:     s.health.OverallStatus(results),
		Components: results,
	}
}

// ResilienceStats reports the current breaker and limiter state for every
// operation seen so far.
func (s *Service) ResilienceStats() resilience.RegistrySnapshot {
	return s.registry.Snapshot()
}

// Registry exposes the shared resilience registry, letting callers install
// per-operation breaker or limiter overrides before the first call.
func (s *Service) Registry() *resilience.Registry {
	return s.registry
}
