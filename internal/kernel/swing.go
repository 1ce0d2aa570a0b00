package kernel

import (
	"math"
	"sort"
)

// Level is one merged support/resistance level.
type Level struct {
	Price    float64 // representative price (cluster mean)
	Touches  int     // swing points merged into this level
	Distance float64 // fractional distance from the reference close
}

// SwingPoint marks a confirmed local extreme.
type SwingPoint struct {
	Index int
	Price float64
	High  bool // true for a swing high, false for a swing low
}

// SwingPoints finds local extremes: bar i is a swing high when highs[i] is
// the maximum within ±window bars, and a swing low when lows[i] is the
// minimum within the same span. Returns nil when the series is shorter than
// 2*window+1 or flat.
func SwingPoints(highs, lows []float64, window int) []SwingPoint {
	n := len(highs)
	if window <= 0 || n != len(lows) || n < 2*window+1 {
		return nil
	}
	var out []SwingPoint
	for i := window; i < n-window; i++ {
		isHigh := true
		isLow := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if highs[j] >= highs[i] {
				isHigh = false
			}
			if lows[j] <= lows[i] {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			out = append(out, SwingPoint{Index: i, Price: highs[i], High: true})
		}
		if isLow {
			out = append(out, SwingPoint{Index: i, Price: lows[i], High: false})
		}
	}
	return out
}

const (
	levelMergeTolerance = 0.005 // merge swings within 0.5% into one level
	levelMinDistance    = 0.001 // levels closer than 0.1% to price are noise
	levelMaxDistance    = 0.05  // levels farther than 5% are irrelevant
	maxLevels           = 10
)

// SupportResistance detects swing-based levels across several lookback
// windows, merges nearby swings into representative levels, and returns at
// most 10 levels inside the 0.1%-5% band around the most recent close,
// ranked by proximity to it. An empty or flat series yields nil.
func SupportResistance(highs, lows, volumes, closes []float64, lookbackWindows []int) []Level {
	if len(closes) == 0 || len(highs) != len(lows) || allEqual(closes) {
		return nil
	}
	ref := closes[len(closes)-1]
	if ref <= 0 {
		return nil
	}

	var prices []float64
	for _, w := range lookbackWindows {
		for _, sp := range SwingPoints(highs, lows, w) {
			prices = append(prices, sp.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}
	sort.Float64s(prices)

	// Cluster adjacent prices within the merge tolerance; each cluster
	// collapses to its arithmetic mean.
	var levels []Level
	start := 0
	for i := 1; i <= len(prices); i++ {
		if i < len(prices) && prices[i] <= prices[start]*(1+levelMergeTolerance) {
			continue
		}
		cluster := prices[start:i]
		levels = append(levels, Level{Price: Mean(cluster), Touches: len(cluster)})
		start = i
	}

	filtered := levels[:0]
	for _, lv := range levels {
		d := math.Abs(lv.Price-ref) / ref
		if d < levelMinDistance || d > levelMaxDistance {
			continue
		}
		lv.Distance = d
		filtered = append(filtered, lv)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Distance < filtered[j].Distance })
	if len(filtered) > maxLevels {
		filtered = filtered[:maxLevels]
	}
	return filtered
}
