// Package cache provides the byte-oriented store backends behind the
// engine's indicator memoization facade.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by Get when the key is absent or expired.
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrNotReady is returned while a backend has not completed its
	// initialization handshake.
	ErrNotReady = errors.New("cache: backend not ready")
)

// Store is the minimal backend contract: opaque bytes in, opaque bytes out.
// Implementations must make Set idempotent for an identical key+value pair
// and must never expose partially written entries.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	// Ping verifies the backend is reachable and initialized.
	Ping(ctx context.Context) error
	Close() error
}
