package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Confluence/internal/domain/models"
	"Confluence/pkg/cache"
	"Confluence/pkg/config"
)

func testResult() models.IndicatorResult {
	return models.IndicatorResult{
		Family: models.FamilyTechnical,
		Score:  72.5,
		Components: map[models.SubIndicator]float64{
			models.SubRSI: 80,
		},
		Signals: map[models.SubIndicator]models.Signal{
			models.SubRSI: {Value: 80, Signal: "overbought", Bias: models.BiasBullish},
		},
	}
}

func newMemoryFacade(t *testing.T) *Facade {
	t.Helper()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return NewFacade(store, config.Default().Cache, nil)
}

func TestKey(t *testing.T) {
	k := Key(models.FamilyStructure, "BTCUSDT", models.TF5m, 0xdeadbeef)
	assert.Equal(t, "indicator:structure:BTCUSDT:5m:00000000deadbeef", k)
}

func TestFacadeRoundtrip(t *testing.T) {
	f := newMemoryFacade(t)
	ctx := context.Background()
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 42)

	_, ok := f.Lookup(ctx, key)
	assert.False(t, ok, "cold cache misses")

	f.Store(ctx, key, testResult())
	got, ok := f.Lookup(ctx, key)
	require.True(t, ok)
	assert.Equal(t, models.FamilyTechnical, got.Family)
	assert.Equal(t, 72.5, got.Score)
	assert.Equal(t, 80.0, got.Components[models.SubRSI])
	assert.Equal(t, models.BiasBullish, got.Signals[models.SubRSI].Bias)
}

func TestFacadeNilStoreAlwaysMisses(t *testing.T) {
	f := NewFacade(nil, config.Default().Cache, nil)
	ctx := context.Background()
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 1)

	assert.ErrorIs(t, f.Ready(ctx), cache.ErrNotReady)
	f.Store(ctx, key, testResult())
	_, ok := f.Lookup(ctx, key)
	assert.False(t, ok)
}

func TestFacadeIdempotentStore(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	f := NewFacade(store, config.Default().Cache, nil)
	ctx := context.Background()
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 7)

	first := testResult()
	f.Store(ctx, key, first)

	// A second write under the same key leaves the first entry in place.
	second := testResult()
	second.Score = 10
	f.Store(ctx, key, second)

	got, ok := f.Lookup(ctx, key)
	require.True(t, ok)
	assert.Equal(t, 72.5, got.Score)
}

func TestFacadeSkipsWriteOnCancelledContext(t *testing.T) {
	f := newMemoryFacade(t)
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 9)

	readyCtx := context.Background()
	require.NoError(t, f.Ready(readyCtx))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Store(ctx, key, testResult())

	_, ok := f.Lookup(readyCtx, key)
	assert.False(t, ok, "a cancelled write must not leave an entry behind")
}

func TestFacadeCorruptEntryMisses(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	f := NewFacade(store, config.Default().Cache, nil)
	ctx := context.Background()
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 11)

	require.NoError(t, store.Set(ctx, key, []byte("{not json"), 0))
	_, ok := f.Lookup(ctx, key)
	assert.False(t, ok)
}

// failingStore never becomes ready.
type failingStore struct{}

var errDown = errors.New("backend down")

func (failingStore) Get(context.Context, string) ([]byte, error)              { return nil, errDown }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (failingStore) Exists(context.Context, string) (bool, error)             { return false, errDown }
func (failingStore) Delete(context.Context, ...string) error                  { return errDown }
func (failingStore) Ping(context.Context) error                               { return errDown }
func (failingStore) Close() error                                             { return nil }

func TestFacadeDegradesWhenBackendUnready(t *testing.T) {
	f := NewFacade(failingStore{}, config.Default().Cache, nil)
	ctx := context.Background()
	key := Key(models.FamilyTechnical, "BTCUSDT", models.TF1m, 13)

	assert.ErrorIs(t, f.Ready(ctx), errDown)
	// Readiness resolves once; later calls report the recorded outcome.
	assert.ErrorIs(t, f.Ready(ctx), errDown)

	f.Store(ctx, key, testResult())
	_, ok := f.Lookup(ctx, key)
	assert.False(t, ok, "an unready backend degrades to a pass-through miss")
}

func TestNewStoreFromConfig(t *testing.T) {
	cfg := config.Default().Cache
	assert.Nil(t, NewStoreFromConfig(cfg), "caching disabled by default")

	cfg.Enabled = true
	cfg.Backend = "memory"
	store := NewStoreFromConfig(cfg)
	require.NotNil(t, store)
	assert.NoError(t, store.Ping(context.Background()))
	store.Close()
}
