package store

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures the in-memory repository.
type MemoryConfig struct {
	// MaxLogEntries bounds each audit log list. Oldest entries are evicted.
	// Default: 1000
	MaxLogEntries int
}

// RequestLog is one audit trail entry for a completed call.
type RequestLog struct {
	Operation string
	Duration  time.Duration
	Success   bool
	Timestamp time.Time
}

// ErrorLog is one audit trail entry for a failed call.
type ErrorLog struct {
	Operation string
	Kind      string
	Message   string
	Timestamp time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Repository. Cached entries expire lazily on read;
// audit logs keep the most recent MaxLogEntries entries.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	requests []RequestLog
	errLogs  []ErrorLog
	maxLogs  int
}

// NewMemory creates an in-memory repository.
func NewMemory(config ...MemoryConfig) *Memory {
	cfg := MemoryConfig{MaxLogEntries: 1000}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.MaxLogEntries <= 0 {
		cfg.MaxLogEntries = 1000
	}

	return &Memory{
		entries: make(map[string]memoryEntry),
		maxLogs: cfg.MaxLogEntries,
	}
}

// GetCachedResult returns the cached value for the key, or (nil, nil) when
// the key is absent or expired.
func (m *Memory) GetCachedResult(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// SaveCachedResult stores the value under the key. A non-positive ttl stores
// it without expiry.
func (m *Memory) SaveCachedResult(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// DeleteCachedResult removes the key. Deleting an absent key is not an error.
func (m *Memory) DeleteCachedResult(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// SaveRequestLog appends a request audit entry.
func (m *Memory) SaveRequestLog(ctx context.Context, operation string, duration time.Duration, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, RequestLog{
		Operation: operation,
		Duration:  duration,
		Success:   success,
		Timestamp: time.Now(),
	})
	if len(m.requests) > m.maxLogs {
		m.requests = m.requests[len(m.requests)-m.maxLogs:]
	}
	return nil
}

// SaveErrorLog appends an error audit entry.
func (m *Memory) SaveErrorLog(ctx context.Context, operation, errorKind, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errLogs = append(m.errLogs, ErrorLog{
		Operation: operation,
		Kind:      errorKind,
		Message:   errorMessage,
		Timestamp: time.Now(),
	})
	if len(m.errLogs) > m.maxLogs {
		m.errLogs = m.errLogs[len(m.errLogs)-m.maxLogs:]
	}
	return nil
}

// HealthCheck always succeeds.
func (m *Memory) HealthCheck(ctx context.Context) error {
	return nil
}

// RequestLogs returns a copy of the retained request audit entries, oldest
// first.
func (m *Memory) RequestLogs() []RequestLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RequestLog, len(m.requests))
	copy(out, m.requests)
	return out
}

// ErrorLogs returns a copy of the retained error audit entries, oldest first.
func (m *Memory) ErrorLogs() []ErrorLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ErrorLog, len(m.errLogs))
	copy(out, m.errLogs)
	return out
}

// CachedCount reports how many cache entries are currently stored, counting
// expired entries that have not been read yet.
func (m *Memory) CachedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Flush drops all cached entries and audit logs.
func (m *Memory) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	m.requests = nil
	m.errLogs = nil
}
