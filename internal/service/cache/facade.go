// Package cache is the indicator memoization facade. It keys immutable
// IndicatorResults by symbol, timeframe and input-slice fingerprint, and it
// owns the readiness contract the engine depends on: a backend that has not
// completed its initialization handshake is never read or written, and a
// backend that cannot become ready within a bounded time degrades every
// access to a cache miss instead of failing the scoring pass.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"Confluence/internal/domain/models"
	"Confluence/internal/service/metrics"
	"Confluence/pkg/cache"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

// Facade memoizes indicator results on a Store backend.
type Facade struct {
	store        cache.Store
	ttl          time.Duration
	opTimeout    time.Duration
	readyTimeout time.Duration
	log          *logger.Logger

	readyOnce sync.Once
	readyErr  error
}

// NewFacade wraps a store. The caller owns the store's lifecycle; the facade
// only gates access behind readiness. A nil store yields a facade that
// always misses.
func NewFacade(store cache.Store, cfg config.CacheConfig, log *logger.Logger) *Facade {
	if log == nil {
		log = logger.Nop()
	}
	return &Facade{
		store:        store,
		ttl:          cfg.TTL,
		opTimeout:    cfg.OpTimeout,
		readyTimeout: cfg.ReadyTimeout,
		log:          log.Component("cache"),
	}
}

// NewStoreFromConfig builds the configured backend, or nil when caching is
// disabled.
func NewStoreFromConfig(cfg config.CacheConfig) cache.Store {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Backend {
	case "redis":
		return newRedis(cfg)
	case "layered":
		return cache.NewLayeredStore(newRedis(cfg))
	default:
		return cache.NewMemoryStore()
	}
}

func newRedis(cfg config.CacheConfig) cache.Store {
	return cache.NewRedisStore(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPoolSize(cfg.Redis.PoolSize),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
}

// Ready resolves the backend's initialization handshake exactly once. Later
// calls return the recorded outcome without re-triggering initialization.
func (f *Facade) Ready(ctx context.Context) error {
	if f.store == nil {
		return cache.ErrNotReady
	}
	f.readyOnce.Do(func() {
		pingCtx, cancel := context.WithTimeout(ctx, f.readyTimeout)
		defer cancel()
		f.readyErr = f.store.Ping(pingCtx)
		if f.readyErr != nil {
			f.log.Warn("cache backend failed readiness handshake, degrading to pass-through",
				logger.Error(f.readyErr))
		}
	})
	return f.readyErr
}

// usable reports whether the backend may be touched at all.
func (f *Facade) usable(ctx context.Context) bool {
	return f.store != nil && f.Ready(ctx) == nil
}

// Key builds the cache key for one (family, symbol, timeframe, snapshot).
func Key(family models.Family, symbol string, tf models.Timeframe, fingerprint uint64) string {
	return fmt.Sprintf("indicator:%s:%s:%s:%016x", family, symbol, tf, fingerprint)
}

// Lookup returns the memoized result for key, or ok=false on any miss,
// timeout, or backend failure. Backend failures log at warn and never
// escalate.
func (f *Facade) Lookup(ctx context.Context, key string) (models.IndicatorResult, bool) {
	var res models.IndicatorResult
	if !f.usable(ctx) {
		metrics.CacheMisses.Inc()
		return res, false
	}

	opCtx, cancel := context.WithTimeout(ctx, f.opTimeout)
	defer cancel()

	data, err := f.store.Get(opCtx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			f.log.Warn("cache lookup failed, treating as miss",
				logger.String("key", key), logger.Error(err))
		}
		metrics.CacheMisses.Inc()
		return res, false
	}
	if err := json.Unmarshal(data, &res); err != nil {
		f.log.Warn("cache entry corrupt, treating as miss",
			logger.String("key", key), logger.Error(err))
		metrics.CacheMisses.Inc()
		return res, false
	}
	metrics.CacheHits.Inc()
	return res, true
}

// Store memoizes a result under key. Writes are idempotent: a key that
// already holds this fingerprint is left untouched. A cancelled context
// skips the write entirely, so readers never observe a partial entry.
func (f *Facade) Store(ctx context.Context, key string, res models.IndicatorResult) {
	if !f.usable(ctx) || ctx.Err() != nil {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, f.opTimeout)
	defer cancel()

	if ok, err := f.store.Exists(opCtx, key); err != nil || ok {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		f.log.Warn("cache marshal failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := f.store.Set(opCtx, key, data, f.ttl); err != nil {
		f.log.Warn("cache store failed", logger.String("key", key), logger.Error(err))
	}
}
