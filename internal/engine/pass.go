package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"Confluence/internal/aggregator"
	"Confluence/internal/domain/models"
	"Confluence/internal/indicators"
	svccache "Confluence/internal/service/cache"
	"Confluence/internal/service/metrics"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

// Snapshot is one symbol's immutable market data for a single scoring pass,
// keyed by timeframe. The engine never mutates a snapshot and never mixes
// slices from two different snapshots into one result.
type Snapshot map[models.Timeframe]*models.MarketDataSlice

// Engine runs confluence scoring passes. It is safe for concurrent use;
// passes for different symbols are fully independent.
type Engine struct {
	cfg      *config.Config
	families []indicators.Family
	familyW  map[models.Family]float64
	tierW    map[models.Timeframe]float64
	cache    *svccache.Facade
	log      *logger.Logger
}

// New builds an engine from validated configuration. cacheFacade may be nil
// to disable memoization entirely.
func New(cfg *config.Config, cacheFacade *svccache.Facade, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		cfg:      cfg,
		families: indicators.All(cfg, log),
		familyW:  familyWeights(cfg.Families),
		tierW:    aggregator.TierWeights(cfg.Timeframes),
		cache:    cacheFacade,
		log:      log.Component("engine"),
	}
}

// Score runs one full scoring pass for a symbol: the six families compute in
// parallel over the snapshot, join, aggregate across timeframes, and feed
// the consensus engine. The only error returned is context cancellation; all
// data-quality problems degrade to neutral scores and lower confidence.
func (e *Engine) Score(ctx context.Context, symbol string, snapshot Snapshot) (*models.ConfluenceResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Engine.PassTimeout)
	defer cancel()

	type familyOut struct {
		family models.Family
		agg    models.FamilyAggregate
	}
	out := make(chan familyOut, len(e.families))

	var wg sync.WaitGroup
	for _, fam := range e.families {
		wg.Add(1)
		go func(fam indicators.Family) {
			defer wg.Done()
			out <- familyOut{family: fam.Name(), agg: e.computeFamily(ctx, fam, symbol, snapshot)}
		}(fam)
	}
	go func() { wg.Wait(); close(out) }()

	perFamily := make(map[models.Family]models.FamilyAggregate, len(e.families))
	for fo := range out {
		perFamily[fo.family] = fo.agg
	}
	// The join above is a barrier: consensus only ever sees the complete
	// family set for one snapshot.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(map[models.Family]float64, len(perFamily))
	for family, agg := range perFamily {
		scores[family] = agg.FamilyScore
		metrics.FamilyScore.WithLabelValues(string(family)).Set(agg.FamilyScore)
	}
	c := ComputeConsensus(scores, e.familyW, e.cfg.Engine.ConsensusDecay)

	res := &models.ConfluenceResult{
		Symbol:        symbol,
		Score:         c.Score,
		Direction:     c.Direction,
		Consensus:     c.Consensus,
		Confidence:    c.Confidence,
		Disagreement:  c.Disagreement,
		PerFamily:     perFamily,
		TransactionID: uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
	}

	metrics.PassDuration.Observe(time.Since(start).Seconds())
	e.log.Debug("scoring pass complete",
		logger.String("symbol", symbol),
		logger.String("txn", res.TransactionID),
		logger.Float64("score", res.Score),
		logger.Float64("consensus", res.Consensus),
		logger.Float64("confidence", res.Confidence),
		logger.Duration("elapsed", time.Since(start)))
	return res, nil
}

// computeFamily scores one family across every timeframe in the snapshot,
// consulting the cache facade per (family, timeframe, fingerprint).
func (e *Engine) computeFamily(ctx context.Context, fam indicators.Family, symbol string, snapshot Snapshot) models.FamilyAggregate {
	start := time.Now()
	perTF := make(map[models.Timeframe]models.IndicatorResult, len(snapshot))

	for tf, slice := range snapshot {
		if slice == nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		perTF[tf] = e.computeOne(ctx, fam, symbol, tf, slice)
	}

	metrics.FamilyDuration.WithLabelValues(string(fam.Name())).Observe(time.Since(start).Seconds())
	return aggregator.Aggregate(fam.Name(), perTF, e.tierW)
}

func (e *Engine) computeOne(ctx context.Context, fam indicators.Family, symbol string, tf models.Timeframe, slice *models.MarketDataSlice) models.IndicatorResult {
	if e.cache == nil {
		return fam.Compute(ctx, slice)
	}
	key := svccache.Key(fam.Name(), symbol, tf, slice.Fingerprint())
	if res, ok := e.cache.Lookup(ctx, key); ok {
		return res
	}
	res := fam.Compute(ctx, slice)
	e.cache.Store(ctx, key, res)
	return res
}

// ScoreAll runs independent passes for many symbols over a bounded worker
// pool. Cancelling the context stops scheduling new passes; passes already
// in flight finish or observe their own cancellation without affecting each
// other. Missing or failed symbols are simply absent from the result map.
func (e *Engine) ScoreAll(ctx context.Context, snapshots map[string]Snapshot) map[string]*models.ConfluenceResult {
	workers := e.cfg.Engine.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	type job struct {
		symbol   string
		snapshot Snapshot
	}
	jobs := make(chan job)

	var mu sync.Mutex
	results := make(map[string]*models.ConfluenceResult, len(snapshots))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := e.Score(ctx, j.symbol, j.snapshot)
				if err != nil {
					e.log.Warn("scoring pass aborted",
						logger.String("symbol", j.symbol), logger.Error(err))
					continue
				}
				mu.Lock()
				results[j.symbol] = res
				mu.Unlock()
			}
		}()
	}

	for symbol, snapshot := range snapshots {
		select {
		case jobs <- job{symbol: symbol, snapshot: snapshot}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// Classify applies the configured buy/sell thresholds to a final score. The
// consensus engine itself is threshold-agnostic; this helper exists for
// callers that want the standard interpretation.
func (e *Engine) Classify(score float64) string {
	switch {
	case score >= e.cfg.Engine.BuyThreshold:
		return "buy"
	case score <= e.cfg.Engine.SellThreshold:
		return "sell"
	default:
		return "hold"
	}
}
