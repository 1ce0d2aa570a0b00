package kernel

import "math"

// RSI computes the Relative Strength Index over closes using Wilder's
// smoothing. Neutral value is 50 when the series is shorter than period+1 or
// flat.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) <= period {
		return 50
	}
	changes := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		changes = append(changes, closes[i]-closes[i-1])
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		if changes[i] > 0 {
			avgGain += changes[i]
		} else {
			avgLoss -= changes[i]
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(changes); i++ {
		if changes[i] > 0 {
			avgGain = (avgGain*float64(period-1) + changes[i]) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - changes[i]) / float64(period)
		}
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return Clamp(100-100/(1+rs), 0, 100)
}

// MACDHistogram returns the latest MACD histogram value (MACD line minus
// signal line) for the standard fast/slow/signal periods. Neutral value 0
// when the series is too short.
func MACDHistogram(closes []float64, fast, slow, signal int) float64 {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow+signal {
		return 0
	}
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig := EMA(macd, signal)
	return macd[len(macd)-1] - sig[len(sig)-1]
}

// BollingerPosition returns %B: where the last close sits between the lower
// and upper band (mean ± mult·stddev over the trailing window), clamped to
// [0,1]. Neutral value is 0.5 for short or flat series.
func BollingerPosition(closes []float64, window int, mult float64) float64 {
	if window < 2 || len(closes) < window || mult <= 0 {
		return 0.5
	}
	tail := closes[len(closes)-window:]
	mean := Mean(tail)
	sd := StdDev(tail)
	if sd == 0 {
		return 0.5
	}
	lower := mean - mult*sd
	upper := mean + mult*sd
	return Clamp((Last(closes)-lower)/(upper-lower), 0, 1)
}

// ATR computes the average true range over the trailing period using
// Wilder's smoothing. Returns 0 when the series is shorter than period+1.
func ATR(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n <= period || len(highs) != n || len(lows) != n {
		return 0
	}
	trueRange := func(i int) float64 {
		tr := highs[i] - lows[i]
		if d := math.Abs(highs[i] - closes[i-1]); d > tr {
			tr = d
		}
		if d := math.Abs(closes[i-1] - lows[i]); d > tr {
			tr = d
		}
		return tr
	}
	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += trueRange(i)
	}
	atr /= float64(period)
	for i := period + 1; i < n; i++ {
		atr = (atr*float64(period-1) + trueRange(i)) / float64(period)
	}
	return atr
}

// OBV computes the on-balance volume series over candles: volume added on
// up-closes, subtracted on down-closes. Returns nil for fewer than 2 bars.
func OBV(closes, volumes []float64) []float64 {
	n := len(closes)
	if n < 2 || len(volumes) != n {
		return nil
	}
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
