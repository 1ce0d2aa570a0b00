// Package aggregator folds one family's per-timeframe results into a single
// family score using the configured timeframe-tier weights.
package aggregator

import (
	"Confluence/internal/domain/models"
	"Confluence/pkg/config"
)

// TierWeights maps concrete timeframes to their configured tier weights.
// The tiers are base/LTF/MTF/HTF at 1m/5m/30m/4h.
func TierWeights(cfg config.TimeframeWeights) map[models.Timeframe]float64 {
	return map[models.Timeframe]float64{
		models.TF1m:  cfg.Base,
		models.TF5m:  cfg.LTF,
		models.TF30m: cfg.MTF,
		models.TF4h:  cfg.HTF,
	}
}

// Aggregate combines per-timeframe results into a FamilyAggregate. Missing
// timeframes are excluded and the remaining weights renormalize, so a family
// that only produced a base-timeframe result still scores on full weight.
// When no timeframe produced data the family score is neutral and the
// aggregate is flagged.
func Aggregate(family models.Family, perTimeframe map[models.Timeframe]models.IndicatorResult, weights map[models.Timeframe]float64) models.FamilyAggregate {
	agg := models.FamilyAggregate{
		Family:       family,
		PerTimeframe: perTimeframe,
	}

	// Fixed summation order keeps repeat passes over the same snapshot
	// bit-identical.
	var weighted, present float64
	for _, tf := range models.Timeframes() {
		res, ok := perTimeframe[tf]
		if !ok {
			continue
		}
		w := weights[tf]
		if w <= 0 {
			continue
		}
		weighted += w * res.Score
		present += w
	}

	if present == 0 {
		agg.FamilyScore = models.NeutralScore
		agg.Metadata = map[string]string{"no_data": "true"}
		return agg
	}
	score := weighted / present
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	agg.FamilyScore = score
	return agg
}
