// Package kernel holds the numeric routines behind every indicator family.
// All functions are pure, deterministic and defined for degenerate inputs:
// an empty or too-short series yields the documented neutral value instead
// of an error. Nothing in this package allocates beyond its return values,
// performs I/O, or depends on anything outside the standard math library.
package kernel

import (
	"math"
	"sort"
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance, or 0 for fewer than 2 points.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Median returns the middle value, or 0 for an empty series.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Quantile returns the q-th quantile (q in [0,1]) by nearest-rank, or 0 for
// an empty series.
func Quantile(xs []float64, q float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	q = Clamp(q, 0, 1)
	idx := int(math.Ceil(q*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// EMA returns the exponential moving average series for the given period.
// Returns nil when the input is empty or period is not positive.
func EMA(xs []float64, period int) []float64 {
	if len(xs) == 0 || period <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA returns the simple moving average of the trailing window ending at the
// last element, or 0 when the series is shorter than the window.
func SMA(xs []float64, window int) float64 {
	if window <= 0 || len(xs) < window {
		return 0
	}
	return Mean(xs[len(xs)-window:])
}

// Slope returns the average per-step change over the trailing window of a
// series, used to read the drift of cumulative series like CVD or OBV.
// Neutral value is 0 for fewer than 2 points.
func Slope(xs []float64, window int) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	if window < 2 || window > n {
		window = n
	}
	first := xs[n-window]
	last := xs[n-1]
	return (last - first) / float64(window-1)
}

// Last returns the final element, or 0 for an empty series.
func Last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

// allEqual reports whether every element equals the first one.
func allEqual(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[0] {
			return false
		}
	}
	return true
}
