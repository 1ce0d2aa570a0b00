package models

import "time"

// Family identifies one of the six indicator families.
type Family string

const (
	FamilyTechnical Family = "technical"
	FamilyVolume    Family = "volume"
	FamilyOrderflow Family = "orderflow"
	FamilyOrderbook Family = "orderbook"
	FamilySentiment Family = "sentiment"
	FamilyStructure Family = "structure"
)

// Families lists all indicator families in a stable order.
func Families() []Family {
	return []Family{
		FamilyTechnical,
		FamilyVolume,
		FamilyOrderflow,
		FamilyOrderbook,
		FamilySentiment,
		FamilyStructure,
	}
}

// SubIndicator identifies one sub-indicator inside a family. The set per
// family is closed; components only ever emit the constants declared below.
type SubIndicator string

// Technical family.
const (
	SubRSI           SubIndicator = "rsi"
	SubEMATrend      SubIndicator = "ema_trend"
	SubMACD          SubIndicator = "macd"
	SubBollinger     SubIndicator = "bollinger"
	SubATRVolatility SubIndicator = "atr_volatility"
)

// Volume family.
const (
	SubRelativeVolume SubIndicator = "relative_volume"
	SubVolumeTrend    SubIndicator = "volume_trend"
	SubOBV            SubIndicator = "obv"
	SubVolumeSpikes   SubIndicator = "volume_spikes"
)

// Orderflow family.
const (
	SubCVD            SubIndicator = "cvd"
	SubFlowImbalance  SubIndicator = "trade_flow_imbalance"
	SubAggressiveFlow SubIndicator = "aggressive_trades"
	SubLargeTradeBias SubIndicator = "large_trade_bias"
)

// Orderbook family.
const (
	SubDepthImbalance SubIndicator = "depth_imbalance"
	SubWallPressure   SubIndicator = "wall_pressure"
	SubMicroPrice     SubIndicator = "micro_price"
	SubLiquidityDepth SubIndicator = "liquidity_depth"
)

// Sentiment family.
const (
	SubFundingRate  SubIndicator = "funding_rate"
	SubOITrend      SubIndicator = "open_interest_trend"
	SubChange24h    SubIndicator = "price_change_24h"
	SubOIDivergence SubIndicator = "oi_price_divergence"
)

// Structure family.
const (
	SubSupportResistance SubIndicator = "support_resistance"
	SubOrderBlocks       SubIndicator = "order_blocks"
	SubTrendPosition     SubIndicator = "trend_position"
	SubMarketStructure   SubIndicator = "market_structure"
	SubRangeAnalysis     SubIndicator = "range_analysis"
	SubSweepDeviation    SubIndicator = "sweep_deviation"
)

// NeutralScore is the score a sub-indicator or family reports when it has no
// evidence in either direction.
const NeutralScore = 50.0

// SignalBias labels the direction a sub-indicator leans.
type SignalBias string

const (
	BiasBullish SignalBias = "bullish"
	BiasBearish SignalBias = "bearish"
	BiasNeutral SignalBias = "neutral"
)

// BiasForScore maps a 0-100 score to its direction label.
func BiasForScore(score float64) SignalBias {
	switch {
	case score > NeutralScore+5:
		return BiasBullish
	case score < NeutralScore-5:
		return BiasBearish
	default:
		return BiasNeutral
	}
}

// Signal carries the raw reading behind one sub-indicator score.
type Signal struct {
	Value  float64    `json:"value"`
	Signal string     `json:"signal"`
	Bias   SignalBias `json:"bias"`
}

// IndicatorResult is the immutable output of one family computation on one
// (symbol, timeframe) slice. Degraded lists the sub-indicators that fell
// back to neutral because their inputs were missing or degenerate.
type IndicatorResult struct {
	Family     Family                   `json:"family"`
	Score      float64                  `json:"score"`
	Components map[SubIndicator]float64 `json:"components"`
	Signals    map[SubIndicator]Signal  `json:"signals"`
	Degraded   []SubIndicator           `json:"degraded,omitempty"`
	Metadata   map[string]string        `json:"metadata,omitempty"`
}

// NeutralIndicatorResult is the fail-closed result for a family whose whole
// input slice is missing or unusable.
func NeutralIndicatorResult(family Family, reason string) IndicatorResult {
	return IndicatorResult{
		Family:     family,
		Score:      NeutralScore,
		Components: map[SubIndicator]float64{},
		Signals:    map[SubIndicator]Signal{},
		Metadata:   map[string]string{"neutral_reason": reason},
	}
}

// FamilyAggregate is one family's scores folded across timeframes.
type FamilyAggregate struct {
	Family       Family                        `json:"family"`
	FamilyScore  float64                       `json:"family_score"`
	PerTimeframe map[Timeframe]IndicatorResult `json:"per_timeframe"`
	Metadata     map[string]string             `json:"metadata,omitempty"`
}

// ConfluenceResult is the terminal artifact of one scoring pass. Score is on
// the backward-compatible 0-100 scale (50 = neutral); Direction is the raw
// weighted direction in [-1, 1].
type ConfluenceResult struct {
	Symbol        string                     `json:"symbol"`
	Score         float64                    `json:"score"`
	Direction     float64                    `json:"direction"`
	Consensus     float64                    `json:"consensus"`
	Confidence    float64                    `json:"confidence"`
	Disagreement  float64                    `json:"disagreement"`
	PerFamily     map[Family]FamilyAggregate `json:"per_family"`
	TransactionID string                     `json:"transaction_id"`
	GeneratedAt   time.Time                  `json:"generated_at"`
}
