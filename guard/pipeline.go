package guard

import (
	"context"
	"errors"
	"time"

	"github.com/vkguard/vkguard/cache"
	"github.com/vkguard/vkguard/resilience"
)

// ErrNilOperation is returned by New when no operation function is given.
var ErrNilOperation = errors.New("guard: nil operation")

// OpFunc is the underlying call a pipeline protects.
type OpFunc func(ctx context.Context, params Params) ([]byte, error)

// Pipeline wraps one API operation in a fixed stack of guards. Stages apply
// outermost to innermost: audit logging, retry, validation, cache, timeout,
// bulkhead, rate limit, circuit breaker, then the call itself. Validation
// sits inside retry so its rejections surface immediately (the retry
// classifier never retries them), and the cache sits outside the breaker so
// cached reads keep serving while the upstream is fenced off. Every stage is
// optional; an unconfigured pipeline is a passthrough.
type Pipeline struct {
	name     string
	op       OpFunc
	recorder *Recorder
	retry    *resilience.Retry
	validate func(params Params) error
	cache    *cache.Decorator
	timeout  *resilience.Timeout
	bulkhead *resilience.Bulkhead
	limiter  *resilience.RateLimiter
	breaker  *resilience.CircuitBreaker
}

// Option configures a single pipeline stage.
type Option func(*Pipeline) error

// New creates a pipeline for the named operation.
func New(name string, op OpFunc, opts ...Option) (*Pipeline, error) {
	if op == nil {
		return nil, ErrNilOperation
	}

	p := &Pipeline{name: name, op: op}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithLogging attaches a recorder so every call outcome is audited.
func WithLogging(rec *Recorder) Option {
	return func(p *Pipeline) error {
		p.recorder = rec
		return nil
	}
}

// WithRetry enables retries with exponential backoff. When the config has no
// classifier, Retryable is used, so validation failures and circuit-open
// rejections are never reattempted.
func WithRetry(config resilience.RetryConfig) Option {
	return func(p *Pipeline) error {
		if config.RetryIf == nil {
			config.RetryIf = Retryable
		}
		p.retry = resilience.NewRetry(config)
		return nil
	}
}

// WithValidation runs the check against the call parameters before any
// upstream work. A failed check rejects the call without consuming rate
// limit or breaker capacity.
func WithValidation(check func(params Params) error) Option {
	return func(p *Pipeline) error {
		p.validate = check
		return nil
	}
}

// WithCache enables read-through caching of successful results in the given
// store.
func WithCache(store cache.Cache, config cache.DecoratorConfig) Option {
	return func(p *Pipeline) error {
		dec, err := cache.NewDecorator(store, config)
		if err != nil {
			return err
		}
		p.cache = dec
		return nil
	}
}

// WithTimeout bounds each upstream attempt.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		p.timeout = resilience.NewTimeout(resilience.TimeoutConfig{Timeout: d})
		return nil
	}
}

// WithBulkhead caps concurrent in-flight calls.
func WithBulkhead(b *resilience.Bulkhead) Option {
	return func(p *Pipeline) error {
		p.bulkhead = b
		return nil
	}
}

// WithRateLimit applies the rate limiter to each attempt.
func WithRateLimit(rl *resilience.RateLimiter) Option {
	return func(p *Pipeline) error {
		p.limiter = rl
		return nil
	}
}

// WithCircuitBreaker fences the call behind the breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(p *Pipeline) error {
		p.breaker = cb
		return nil
	}
}

// Name returns the operation name the pipeline guards.
func (p *Pipeline) Name() string {
	return p.name
}

// Execute runs the operation through every configured stage and returns the
// response body. Errors pass through unchanged so callers can classify them
// with Kind and Retryable.
func (p *Pipeline) Execute(ctx context.Context, params Params) ([]byte, error) {
	start := time.Now()
	attempts := 0
	cacheHit := false
	var result []byte

	attempt := func(ctx context.Context) error {
		attempts++
		cacheHit = false

		if p.validate != nil {
			if err := p.validate(params); err != nil {
				return err
			}
		}

		if p.cache != nil {
			body, hit, err := p.cache.Execute(ctx, params, func(ctx context.Context) ([]byte, error) {
				return p.callUpstream(ctx, params)
			})
			if err != nil {
				return err
			}
			result, cacheHit = body, hit
			return nil
		}

		body, err := p.callUpstream(ctx, params)
		if err != nil {
			return err
		}
		result = body
		return nil
	}

	run := func(ctx context.Context) error {
		if p.retry != nil {
			return p.retry.Execute(ctx, attempt)
		}
		return attempt(ctx)
	}

	var err error
	if p.recorder != nil {
		spanCtx, span := p.recorder.StartSpan(ctx, p.name)
		err = run(spanCtx)
		p.recorder.EndSpan(span, err)
		p.recorder.Record(ctx, Outcome{
			Operation: p.name,
			Duration:  time.Since(start),
			Err:       err,
			Attempts:  attempts,
			CacheHit:  cacheHit,
		})
	} else {
		err = run(ctx)
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// callUpstream runs one guarded attempt against the upstream: timeout around
// bulkhead around rate limit around circuit breaker around the call.
func (p *Pipeline) callUpstream(ctx context.Context, params Params) ([]byte, error) {
	var out []byte
	run := func(ctx context.Context) error {
		body, err := p.op(ctx, params)
		if err != nil {
			return err
		}
		out = body
		return nil
	}

	if p.breaker != nil {
		inner := run
		run = func(ctx context.Context) error { return p.breaker.Execute(ctx, inner) }
	}
	if p.limiter != nil {
		inner := run
		run = func(ctx context.Context) error { return p.limiter.Execute(ctx, inner) }
	}
	if p.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error { return p.bulkhead.Execute(ctx, inner) }
	}
	if p.timeout != nil {
		inner := run
		run = func(ctx context.Context) error { return p.timeout.Execute(ctx, inner) }
	}

	if err := run(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
