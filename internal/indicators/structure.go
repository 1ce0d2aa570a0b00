package indicators

import (
	"context"
	"math"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var structureSubs = []models.SubIndicator{
	models.SubSupportResistance,
	models.SubOrderBlocks,
	models.SubTrendPosition,
	models.SubMarketStructure,
	models.SubRangeAnalysis,
	models.SubSweepDeviation,
}

// Structure scores price structure: where price sits relative to swing
// levels, order blocks, confirmed structure breaks, and range behavior
// including liquidity sweeps.
type Structure struct {
	kcfg    config.KernelConfig
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewStructure(cfg *config.Config, log *logger.Logger) *Structure {
	return &Structure{
		kcfg:    cfg.Kernel,
		weights: subWeights(cfg, models.FamilyStructure, structureSubs),
		log:     log.Component("indicator.structure"),
	}
}

func (s *Structure) Name() models.Family { return models.FamilyStructure }

func (s *Structure) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice.Empty() {
		return models.NeutralIndicatorResult(models.FamilyStructure, "no candles")
	}
	board := newScoreboard(models.FamilyStructure, s.weights, s.log)
	opens := slice.Opens()
	highs := slice.Highs()
	lows := slice.Lows()
	closes := slice.Closes()
	volumes := slice.Volumes()
	price := closes[len(closes)-1]

	s.scoreSupportResistance(board, highs, lows, volumes, closes, price)
	s.scoreOrderBlocks(board, opens, highs, lows, closes, volumes, price)
	s.scoreTrendPosition(board, highs, lows, closes)
	s.scoreMarketStructure(board, highs, lows, closes)

	rng := kernel.IdentifyRange(highs, lows, closes, s.kcfg.RangeLookback, s.kcfg.RangeTouchTol)
	s.scoreRange(board, rng)
	s.scoreSweeps(board, highs, lows, closes, rng)

	return board.result()
}

// scoreSupportResistance reads whether the nearest levels cushion price from
// below (support closer than resistance) or cap it from above.
func (s *Structure) scoreSupportResistance(board *scoreboard, highs, lows, volumes, closes []float64, price float64) {
	levels := kernel.SupportResistance(highs, lows, volumes, closes, s.kcfg.SRLookbacks)
	if len(levels) == 0 || price <= 0 {
		board.neutral(models.SubSupportResistance, "no usable levels")
		return
	}
	nearestBelow := math.MaxFloat64
	nearestAbove := math.MaxFloat64
	for _, lv := range levels {
		if lv.Price < price && price-lv.Price < nearestBelow {
			nearestBelow = price - lv.Price
		}
		if lv.Price > price && lv.Price-price < nearestAbove {
			nearestAbove = lv.Price - price
		}
	}
	switch {
	case nearestBelow == math.MaxFloat64 && nearestAbove == math.MaxFloat64:
		board.neutral(models.SubSupportResistance, "no usable levels")
	case nearestBelow == math.MaxFloat64:
		// Only resistance overhead.
		board.add(models.SubSupportResistance, 30, nearestAbove/price, "resistance_overhead")
	case nearestAbove == math.MaxFloat64:
		board.add(models.SubSupportResistance, 70, nearestBelow/price, "support_below")
	default:
		// Room to the upside relative to the cushion below.
		ratio := nearestAbove / (nearestAbove + nearestBelow)
		board.add(models.SubSupportResistance, ratio*100, ratio, "level_position")
	}
}

// scoreOrderBlocks votes recent blocks near price, weighted by recency.
func (s *Structure) scoreOrderBlocks(board *scoreboard, opens, highs, lows, closes, volumes []float64, price float64) {
	params := kernel.DefaultOrderBlockParams()
	params.BodyRatio = s.kcfg.BlockBodyRatio
	params.VolumeQuantile = s.kcfg.BlockVolQuantile
	params.MinDistance = s.kcfg.BlockMinDistance

	bullish, bearish := kernel.OrderBlocks(opens, highs, lows, closes, volumes, params)
	if len(bullish) == 0 && len(bearish) == 0 {
		board.add(models.SubOrderBlocks, 50, 0, "no_blocks")
		return
	}
	n := len(closes)
	vote := 0.0
	total := 0.0
	score := func(blocks []kernel.OrderBlock, dir float64) {
		for _, b := range blocks {
			w := float64(b.Index+1) / float64(n)
			vote += dir * w
			total += w
		}
	}
	score(bullish, 1)
	score(bearish, -1)
	if total == 0 {
		board.add(models.SubOrderBlocks, 50, 0, "no_blocks")
		return
	}
	board.add(models.SubOrderBlocks, 50+vote/total*50, float64(len(bullish)-len(bearish)), "block_vote")
}

// scoreTrendPosition places the close inside the full lookback envelope.
func (s *Structure) scoreTrendPosition(board *scoreboard, highs, lows, closes []float64) {
	top := highs[0]
	bottom := lows[0]
	for i := 1; i < len(highs); i++ {
		if highs[i] > top {
			top = highs[i]
		}
		if lows[i] < bottom {
			bottom = lows[i]
		}
	}
	if top <= bottom {
		board.neutral(models.SubTrendPosition, "flat envelope")
		return
	}
	pos := kernel.Clamp((closes[len(closes)-1]-bottom)/(top-bottom), 0, 1)
	board.add(models.SubTrendPosition, pos*100, pos, "envelope_position")
}

// scoreMarketStructure reads the latest confirmed break, discounted by age.
func (s *Structure) scoreMarketStructure(board *scoreboard, highs, lows, closes []float64) {
	events := kernel.MarketStructureBreaks(highs, lows, closes, s.kcfg.SwingWindow, s.kcfg.StructureNoise)
	if len(events) == 0 {
		board.add(models.SubMarketStructure, 50, 0, "no_breaks")
		return
	}
	last := events[len(events)-1]
	age := float64(len(closes) - 1 - last.Index)
	strength := math.Exp(-age / 20.0)
	board.add(models.SubMarketStructure, 50+float64(last.Direction)*strength*50,
		float64(last.Direction), "structure_break")
}

// scoreRange converts position-in-range into a mean-reversion score: near
// the bottom of a valid range is a long zone, near the top a short zone.
func (s *Structure) scoreRange(board *scoreboard, rng kernel.Range) {
	if !rng.Valid {
		board.add(models.SubRangeAnalysis, 50, rng.Position, "no_valid_range")
		return
	}
	board.add(models.SubRangeAnalysis, (1-rng.Position)*100, rng.Position, "range_position")
}

// scoreSweeps folds decayed sweep events into a reversal bias.
func (s *Structure) scoreSweeps(board *scoreboard, highs, lows, closes []float64, rng kernel.Range) {
	if !rng.Valid {
		board.add(models.SubSweepDeviation, 50, 0, "no_valid_range")
		return
	}
	events := kernel.SweepDeviations(highs, lows, closes, rng.Top, rng.Bottom, s.kcfg.SweepThreshold)
	if len(events) == 0 {
		board.add(models.SubSweepDeviation, 50, 0, "no_sweeps")
		return
	}
	var vote, total float64
	for _, ev := range events {
		vote += float64(ev.Direction) * ev.Weight
		total += ev.Weight
	}
	board.add(models.SubSweepDeviation, 50+vote/total*50, float64(len(events)), "sweep_vote")
}
