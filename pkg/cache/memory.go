package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tripdesk/pkg/logger"
)

type memoryEntry struct {
	data    []byte
	expires time.Time // zero means no expiry
}

// Memory keeps entries in process. Values are stored as JSON so reads behave
// like the Redis service.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	logger  *logger.Logger
	now     func() time.Time
}

func NewMemory(log *logger.Logger) *Memory {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Memory{entries: make(map[string]memoryEntry), logger: log, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return getOrSet(ctx, m, m.logger, key, ttl, fetcher, dest)
}

func (m *Memory) Ping(context.Context) error { return nil }
