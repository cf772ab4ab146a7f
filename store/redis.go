package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed repository.
type RedisConfig struct {
	// Addr is the host:port of the Redis instance.
	// Default: localhost:6379
	Addr string

	// Password authenticates the connection. Empty means no auth.
	Password string

	// DB selects the Redis database number.
	DB int

	// KeyPrefix namespaces every key written by this repository.
	// Default: "vkguard:"
	KeyPrefix string

	// MaxLogEntries bounds each audit log list. Oldest entries are trimmed.
	// Default: 1000
	MaxLogEntries int64

	// DialTimeout bounds connection establishment.
	// Default: 5 seconds
	DialTimeout time.Duration
}

// Redis is a Repository backed by a Redis instance. Cached results are plain
// keys with TTL; audit logs are capped lists of JSON entries, newest first.
type Redis struct {
	client  *redis.Client
	prefix  string
	maxLogs int64
}

// NewRedis creates a Redis repository and its underlying client. The
// connection is not probed here; use HealthCheck.
func NewRedis(config RedisConfig) *Redis {
	if config.Addr == "" {
		config.Addr = "localhost:6379"
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "vkguard:"
	}
	if config.MaxLogEntries <= 0 {
		config.MaxLogEntries = 1000
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	return &Redis{
		client:  client,
		prefix:  config.KeyPrefix,
		maxLogs: config.MaxLogEntries,
	}
}

// NewRedisWithClient wraps an existing client, sharing its connection pool.
func NewRedisWithClient(client *redis.Client, keyPrefix string, maxLogEntries int64) *Redis {
	if keyPrefix == "" {
		keyPrefix = "vkguard:"
	}
	if maxLogEntries <= 0 {
		maxLogEntries = 1000
	}
	return &Redis{client: client, prefix: keyPrefix, maxLogs: maxLogEntries}
}

func (r *Redis) cacheKey(key string) string {
	return r.prefix + "cache:" + key
}

func (r *Redis) requestLogKey() string {
	return r.prefix + "log:requests"
}

func (r *Redis) errorLogKey() string {
	return r.prefix + "log:errors"
}

// GetCachedResult returns the cached value, or (nil, nil) when the key is
// absent.
func (r *Redis) GetCachedResult(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SaveCachedResult stores the value with the given TTL. A non-positive ttl
// stores it without expiry.
func (r *Redis) SaveCachedResult(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.cacheKey(key), value, ttl).Err()
}

// DeleteCachedResult removes the key. Deleting an absent key is not an error.
func (r *Redis) DeleteCachedResult(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.cacheKey(key)).Err()
}

type redisRequestLog struct {
	Operation  string    `json:"operation"`
	DurationMS float64   `json:"duration_ms"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

type redisErrorLog struct {
	Operation string    `json:"operation"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveRequestLog pushes a request audit entry and trims the list to the
// retention bound.
func (r *Redis) SaveRequestLog(ctx context.Context, operation string, duration time.Duration, success bool) error {
	entry, err := json.Marshal(redisRequestLog{
		Operation:  operation,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
		Success:    success,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return err
	}
	return r.pushCapped(ctx, r.requestLogKey(), entry)
}

// SaveErrorLog pushes an error audit entry and trims the list to the
// retention bound.
func (r *Redis) SaveErrorLog(ctx context.Context, operation, errorKind, errorMessage string) error {
	entry, err := json.Marshal(redisErrorLog{
		Operation: operation,
		Kind:      errorKind,
		Message:   errorMessage,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}
	return r.pushCapped(ctx, r.errorLogKey(), entry)
}

func (r *Redis) pushCapped(ctx context.Context, key string, entry []byte) error {
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, entry)
	pipe.LTrim(ctx, key, 0, r.maxLogs-1)
	_, err := pipe.Exec(ctx)
	return err
}

// RequestLogs returns up to limit request audit entries, newest first.
func (r *Redis) RequestLogs(ctx context.Context, limit int64) ([]RequestLog, error) {
	if limit <= 0 || limit > r.maxLogs {
		limit = r.maxLogs
	}
	raw, err := r.client.LRange(ctx, r.requestLogKey(), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]RequestLog, 0, len(raw))
	for _, item := range raw {
		var entry redisRequestLog
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		out = append(out, RequestLog{
			Operation: entry.Operation,
			Duration:  time.Duration(entry.DurationMS * float64(time.Millisecond)),
			Success:   entry.Success,
			Timestamp: entry.Timestamp,
		})
	}
	return out, nil
}

// ErrorLogs returns up to limit error audit entries, newest first.
func (r *Redis) ErrorLogs(ctx context.Context, limit int64) ([]ErrorLog, error) {
	if limit <= 0 || limit > r.maxLogs {
		limit = r.maxLogs
	}
	raw, err := r.client.LRange(ctx, r.errorLogKey(), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]ErrorLog, 0, len(raw))
	for _, item := range raw {
		var entry redisErrorLog
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		out = append(out, ErrorLog{
			Operation: entry.Operation,
			Kind:      entry.Kind,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		})
	}
	return out, nil
}

// HealthCheck pings the Redis instance.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client and its connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
