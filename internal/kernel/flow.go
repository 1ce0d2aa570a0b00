package kernel

import "math"

// CVD returns the cumulative volume delta series: a running sum of signed
// trade volume, buy-side positive, sell-side negative, one value per trade.
// Consumers read the terminal value and its slope. Empty input yields nil.
func CVD(volumes []float64, sides []int8) []float64 {
	n := len(volumes)
	if n == 0 || len(sides) != n {
		return nil
	}
	out := make([]float64, n)
	running := 0.0
	for i := 0; i < n; i++ {
		if sides[i] > 0 {
			running += volumes[i]
		} else {
			running -= volumes[i]
		}
		out[i] = running
	}
	return out
}

// TradeFlowImbalance scores buy/sell volume balance inside a trailing time
// window: (buy-sell)/(buy+sell) mapped to [0,100] around 50 as neutral.
// Timestamps are epoch milliseconds ascending. Returns 50 when the window is
// empty or carries no volume.
func TradeFlowImbalance(volumes []float64, sides []int8, timestamps []int64, windowSeconds int) float64 {
	n := len(volumes)
	if n == 0 || len(sides) != n || len(timestamps) != n {
		return 50
	}
	cutoff := timestamps[n-1] - int64(windowSeconds)*1000
	var buy, sell float64
	for i := n - 1; i >= 0 && timestamps[i] >= cutoff; i-- {
		if sides[i] > 0 {
			buy += volumes[i]
		} else {
			sell += volumes[i]
		}
	}
	total := buy + sell
	if total <= 0 {
		return 50
	}
	return Clamp(50+50*(buy-sell)/total, 0, 100)
}

// AggressiveTradeParams tunes aggressive trade detection.
type AggressiveTradeParams struct {
	SizeMultiple  float64 // trailing-median multiple, default 3
	TickThreshold float64 // fractional price move floor, default 0.0001
	MedianWindow  int     // trailing trades for the size baseline, default 50
}

// DefaultAggressiveTradeParams returns the production defaults.
func DefaultAggressiveTradeParams() AggressiveTradeParams {
	return AggressiveTradeParams{SizeMultiple: 3, TickThreshold: 0.0001, MedianWindow: 50}
}

// AggressiveTrades flags trades whose size exceeds SizeMultiple times the
// trailing median and whose price moved the tape by more than TickThreshold,
// then folds them into a directional pressure score on [0,100]. Neutral 50
// when nothing qualifies or the input is degenerate.
func AggressiveTrades(prices, volumes []float64, sides []int8, p AggressiveTradeParams) float64 {
	n := len(prices)
	if n < 2 || len(volumes) != n || len(sides) != n {
		return 50
	}
	if p.SizeMultiple <= 0 || p.MedianWindow <= 0 {
		p = DefaultAggressiveTradeParams()
	}

	var buyPressure, sellPressure float64
	for i := 1; i < n; i++ {
		lo := i - p.MedianWindow
		if lo < 0 {
			lo = 0
		}
		med := Median(volumes[lo:i])
		if med <= 0 || volumes[i] < p.SizeMultiple*med {
			continue
		}
		if prices[i-1] <= 0 {
			continue
		}
		move := math.Abs(prices[i]-prices[i-1]) / prices[i-1]
		if move <= p.TickThreshold {
			continue
		}
		if sides[i] > 0 {
			buyPressure += volumes[i]
		} else {
			sellPressure += volumes[i]
		}
	}
	total := buyPressure + sellPressure
	if total <= 0 {
		return 50
	}
	return Clamp(50+50*(buyPressure-sellPressure)/total, 0, 100)
}

// LargeTradeBias measures which side the largest trades lean to: trades in
// the top size decile contribute their signed volume; the balance maps to
// [0,100]. Neutral 50 for degenerate input.
func LargeTradeBias(volumes []float64, sides []int8) float64 {
	n := len(volumes)
	if n < 10 || len(sides) != n {
		return 50
	}
	floor := Quantile(volumes, 0.9)
	var buy, sell float64
	for i := 0; i < n; i++ {
		if volumes[i] < floor {
			continue
		}
		if sides[i] > 0 {
			buy += volumes[i]
		} else {
			sell += volumes[i]
		}
	}
	total := buy + sell
	if total <= 0 {
		return 50
	}
	return Clamp(50+50*(buy-sell)/total, 0, 100)
}
