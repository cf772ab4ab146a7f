package guard

import (
	"context"
	"time"

	"github.com/vkguard/vkguard/cache"
)

// Repository persists cached API results and the audit trail of calls.
// GetCachedResult returns (nil, nil) on a cache miss; a non-nil error means
// the repository itself failed. Log writes are best-effort from the caller's
// perspective: the guard reports their failures but never fails a call over
// them.
type Repository interface {
	GetCachedResult(ctx context.Context, key string) ([]byte, error)
	SaveCachedResult(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteCachedResult(ctx context.Context, key string) error
	SaveRequestLog(ctx context.Context, operation string, duration time.Duration, success bool) error
	SaveErrorLog(ctx context.Context, operation, errorKind, errorMessage string) error
	HealthCheck(ctx context.Context) error
}

// repoCache adapts a Repository to the cache.Cache interface so the
// read-through decorator can back onto it. Repository failures on reads are
// treated as misses; the call proceeds to the upstream instead of failing.
type repoCache struct {
	repo Repository
}

// NewRepoCache wraps a Repository for use as a pipeline cache store.
func NewRepoCache(repo Repository) cache.Cache {
	return &repoCache{repo: repo}
}

func (c *repoCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.repo.GetCachedResult(ctx, key)
	if err != nil || value == nil {
		return nil, false
	}
	return value, true
}

func (c *repoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.repo.SaveCachedResult(ctx, key, value, ttl)
}

func (c *repoCache) Delete(ctx context.Context, key string) error {
	return c.repo.DeleteCachedResult(ctx, key)
}
