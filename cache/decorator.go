package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// OpFunc is the signature of an operation whose response can be cached.
type OpFunc func(ctx context.Context) ([]byte, error)

// DecoratorConfig configures a read-through cache decorator.
type DecoratorConfig struct {
	// KeyTemplate is the key pattern with named placeholders, e.g. "user:{id}".
	KeyTemplate string

	// TTL is how long a cached response stays valid.
	TTL time.Duration

	// Policy clamps and defaults the TTL. Zero value means TTL is used as is.
	Policy Policy

	// Coalesce collapses concurrent misses for the same key into a single
	// upstream call. Off by default: the baseline contract accepts duplicate
	// upstream calls on concurrent misses.
	Coalesce bool
}

// Decorator wraps an operation with read-through caching.
//
// On hit the operation is not invoked. On miss the operation runs and only a
// successful response is stored; errors are never cached.
type Decorator struct {
	cache    Cache
	template *Template
	config   DecoratorConfig
	group    *singleflight.Group
}

// NewDecorator parses the key template and builds a decorator over the cache.
func NewDecorator(c Cache, config DecoratorConfig) (*Decorator, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	tmpl, err := ParseTemplate(config.KeyTemplate)
	if err != nil {
		return nil, err
	}

	d := &Decorator{
		cache:    c,
		template: tmpl,
		config:   config,
	}
	if config.Coalesce {
		d.group = new(singleflight.Group)
	}
	return d, nil
}

// Execute runs the operation through the cache. The bool result reports
// whether the response came from the cache.
func (d *Decorator) Execute(ctx context.Context, args map[string]any, op OpFunc) ([]byte, bool, error) {
	key, err := d.template.Render(args)
	if err != nil {
		return nil, false, err
	}

	if cached, ok := d.cache.Get(ctx, key); ok {
		return cached, true, nil
	}

	if d.group != nil {
		v, err, shared := d.group.Do(key, func() (any, error) {
			return d.fill(ctx, key, op)
		})
		if err != nil {
			return nil, false, err
		}
		// A shared result means this caller's miss was absorbed by another
		// in-flight fill.
		return v.([]byte), shared, nil
	}

	result, err := d.fill(ctx, key, op)
	return result, false, err
}

// fill invokes the operation and stores a successful response.
func (d *Decorator) fill(ctx context.Context, key string, op OpFunc) ([]byte, error) {
	result, err := op(ctx)
	if err != nil {
		return nil, err
	}

	ttl := d.config.Policy.EffectiveTTL(d.config.TTL)
	if ttl > 0 {
		// Best effort: a failed store must not fail the call.
		_ = d.cache.Set(ctx, key, result, ttl)
	}
	return result, nil
}

// Key renders the concrete key for the given arguments.
func (d *Decorator) Key(args map[string]any) (string, error) {
	return d.template.Render(args)
}
