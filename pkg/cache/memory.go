package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
	access   time.Time
}

func (m *memoryItem) expired(now time.Time) bool {
	return !m.expireAt.IsZero() && now.After(m.expireAt)
}

// MemoryStore is an in-process Store with TTL expiry and LRU eviction. It is
// always ready; Ping never fails.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	maxSize int

	cleanup *time.Ticker
	done    chan struct{}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:    make(map[string]*memoryItem),
		maxSize: cfg.MaxSize,
		cleanup: time.NewTicker(cfg.CleanupInterval),
		done:    make(chan struct{}),
	}
	go ms.cleanupLoop()
	return ms
}

func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, ok := ms.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	now := time.Now()
	if item.expired(now) {
		delete(ms.data, key)
		return nil, ErrCacheMiss
	}
	item.access = now
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if _, ok := ms.data[key]; !ok && len(ms.data) >= ms.maxSize {
		ms.evictLRU()
	}

	var expireAt time.Time
	if ttl > 0 {
		expireAt = now.Add(ttl)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ms.data[key] = &memoryItem{value: stored, expireAt: expireAt, access: now}
	return nil
}

func (ms *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, ok := ms.data[key]
	return ok && !item.expired(time.Now()), nil
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.data, key)
	}
	return nil
}

func (ms *MemoryStore) Ping(_ context.Context) error { return nil }

func (ms *MemoryStore) evictLRU() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, item := range ms.data {
		if first || item.access.Before(oldest) {
			oldest = item.access
			oldestKey = key
			first = false
		}
	}
	if oldestKey != "" {
		delete(ms.data, oldestKey)
	}
}

func (ms *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-ms.done:
			return
		case <-ms.cleanup.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.data {
				if item.expired(now) {
					delete(ms.data, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore) Close() error {
	ms.cleanup.Stop()
	select {
	case <-ms.done:
	default:
		close(ms.done)
	}
	return nil
}
