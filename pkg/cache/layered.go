package cache

import (
	"context"
	"time"
)

// LayeredStore is a two-level Store: an in-process memory front absorbs
// repeat reads, a backing store (normally Redis) holds the durable copy.
// Readiness and failure semantics follow the backing store; the memory
// level is an accelerator, never an authority.
type LayeredStore struct {
	front *MemoryStore
	back  Store
}

// NewLayeredStore wraps back with a memory front. The layered store owns the
// front; closing it closes both levels.
func NewLayeredStore(back Store, opts ...MemoryOption) *LayeredStore {
	return &LayeredStore{front: NewMemoryStore(opts...), back: back}
}

func (ls *LayeredStore) Get(ctx context.Context, key string) ([]byte, error) {
	if data, err := ls.front.Get(ctx, key); err == nil {
		return data, nil
	}
	data, err := ls.back.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = ls.front.Set(ctx, key, data, 0)
	return data, nil
}

// Set writes through: the backing store first, so a failure there leaves no
// front entry a reader could mistake for durable state.
func (ls *LayeredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ls.back.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = ls.front.Set(ctx, key, value, ttl)
	return nil
}

func (ls *LayeredStore) Exists(ctx context.Context, key string) (bool, error) {
	if ok, err := ls.front.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	return ls.back.Exists(ctx, key)
}

func (ls *LayeredStore) Delete(ctx context.Context, keys ...string) error {
	_ = ls.front.Delete(ctx, keys...)
	return ls.back.Delete(ctx, keys...)
}

// Ping delegates to the backing store: the memory front needs no handshake.
func (ls *LayeredStore) Ping(ctx context.Context) error {
	return ls.back.Ping(ctx)
}

func (ls *LayeredStore) Close() error {
	_ = ls.front.Close()
	return ls.back.Close()
}
