// Package indicators holds the six indicator family components. Each family
// reduces one (symbol, timeframe) MarketDataSlice to a 0-100 score plus a
// signal map, and fails closed: a missing input or degenerate kernel result
// substitutes neutral 50 for that sub-indicator and records the degradation
// instead of surfacing an error.
package indicators

import (
	"context"

	"Confluence/internal/domain/models"
	"Confluence/internal/service/metrics"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

// Family computes one indicator family over a market-data slice. Compute
// never returns an error; degraded inputs surface through the result's
// Degraded list and a lowered information content, not through failures.
type Family interface {
	Name() models.Family
	Compute(ctx context.Context, slice *models.MarketDataSlice) models.IndicatorResult
}

// All constructs the six families from one configuration.
func All(cfg *config.Config, log *logger.Logger) []Family {
	if log == nil {
		log = logger.Nop()
	}
	return []Family{
		NewTechnical(cfg, log),
		NewVolume(cfg, log),
		NewOrderflow(cfg, log),
		NewOrderbook(cfg, log),
		NewSentiment(cfg, log),
		NewStructure(cfg, log),
	}
}

// subWeights resolves the configured weights for a family's sub-indicator
// set, defaulting to equal weights.
func subWeights(cfg *config.Config, family models.Family, subs []models.SubIndicator) map[models.SubIndicator]float64 {
	weights := make(map[models.SubIndicator]float64, len(subs))
	overrides := cfg.SubWeights[string(family)]
	if len(overrides) == 0 {
		equal := 1.0 / float64(len(subs))
		for _, s := range subs {
			weights[s] = equal
		}
		return weights
	}
	for _, s := range subs {
		weights[s] = overrides[string(s)]
	}
	return weights
}

// scoreboard accumulates sub-indicator scores during one family computation
// and folds them into the weighted family result.
type scoreboard struct {
	family   models.Family
	weights  map[models.SubIndicator]float64
	order    []models.SubIndicator
	scores   map[models.SubIndicator]float64
	signals  map[models.SubIndicator]models.Signal
	degraded []models.SubIndicator
	log      *logger.Logger
}

func newScoreboard(family models.Family, weights map[models.SubIndicator]float64, log *logger.Logger) *scoreboard {
	return &scoreboard{
		family:  family,
		weights: weights,
		scores:  make(map[models.SubIndicator]float64, len(weights)),
		signals: make(map[models.SubIndicator]models.Signal, len(weights)),
		log:     log,
	}
}

// add records a sub-indicator score (clipped to [0,100]) and its raw signal.
func (b *scoreboard) add(sub models.SubIndicator, score, raw float64, label string) {
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	b.order = append(b.order, sub)
	b.scores[sub] = score
	b.signals[sub] = models.Signal{Value: raw, Signal: label, Bias: models.BiasForScore(score)}
}

// neutral records a fail-closed neutral score with a diagnostic.
func (b *scoreboard) neutral(sub models.SubIndicator, reason string) {
	b.order = append(b.order, sub)
	b.scores[sub] = models.NeutralScore
	b.signals[sub] = models.Signal{Signal: reason, Bias: models.BiasNeutral}
	b.degraded = append(b.degraded, sub)
	metrics.DegradedSubIndicators.WithLabelValues(string(b.family)).Inc()
	b.log.Warn("sub-indicator degraded to neutral",
		logger.String("family", string(b.family)),
		logger.String("sub", string(sub)),
		logger.String("reason", reason))
}

// result folds the board into the family's IndicatorResult: weighted sum of
// sub-scores clipped to [0,100], normalized by the weights actually present.
// Summation follows insertion order so repeat computations over the same
// slice stay bit-identical.
func (b *scoreboard) result() models.IndicatorResult {
	var weighted, total float64
	for _, sub := range b.order {
		w := b.weights[sub]
		weighted += w * b.scores[sub]
		total += w
	}
	score := models.NeutralScore
	if total > 0 {
		score = weighted / total
	}
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return models.IndicatorResult{
		Family:     b.family,
		Score:      score,
		Components: b.scores,
		Signals:    b.signals,
		Degraded:   b.degraded,
	}
}
