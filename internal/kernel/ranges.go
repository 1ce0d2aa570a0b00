package kernel

import "math"

// Range describes a sideways trading range over a lookback window.
type Range struct {
	Valid    bool
	Top      float64
	Bottom   float64
	Position float64 // (close-bottom)/(top-bottom), clamped to [0,1]
}

// IdentifyRange computes the rolling max/min of the last `lookback` bars and
// validates the range: it counts only when both boundaries were touched
// (within touchTol, fractional) at least twice inside the window. A trending
// series touches each boundary once and is rejected. Degenerate input yields
// an invalid range with Position 0.5.
func IdentifyRange(highs, lows, closes []float64, lookback int, touchTol float64) Range {
	neutral := Range{Position: 0.5}
	n := len(closes)
	if n == 0 || len(highs) != n || len(lows) != n {
		return neutral
	}
	if lookback <= 0 || lookback > n {
		lookback = n
	}
	if touchTol <= 0 {
		touchTol = 0.01
	}
	h := highs[n-lookback:]
	l := lows[n-lookback:]

	top := h[0]
	bottom := l[0]
	for i := 1; i < lookback; i++ {
		if h[i] > top {
			top = h[i]
		}
		if l[i] < bottom {
			bottom = l[i]
		}
	}
	if top <= bottom {
		return neutral
	}

	// A touch is a visit to the boundary band, not a bar count: consecutive
	// bars inside the band collapse into one touch, so a trending series
	// that only grinds into each extreme once cannot validate the range.
	topTouches := 0
	bottomTouches := 0
	inTop := false
	inBottom := false
	for i := 0; i < lookback; i++ {
		if h[i] >= top*(1-touchTol) {
			if !inTop {
				topTouches++
				inTop = true
			}
		} else {
			inTop = false
		}
		if l[i] <= bottom*(1+touchTol) {
			if !inBottom {
				bottomTouches++
				inBottom = true
			}
		} else {
			inBottom = false
		}
	}

	pos := Clamp((closes[n-1]-bottom)/(top-bottom), 0, 1)
	return Range{
		Valid:    topTouches >= 2 && bottomTouches >= 2,
		Top:      top,
		Bottom:   bottom,
		Position: pos,
	}
}

// SweepEvent is one liquidity sweep: a pierce of a range boundary that
// closed back inside within the same or next bar (a false breakout).
// Direction is +1 for a sweep of the lows (bullish reversal context) and -1
// for a sweep of the highs. Weight decays with age so stale sweeps matter
// less.
type SweepEvent struct {
	Index     int
	Direction int
	Magnitude float64 // fractional pierce depth beyond the boundary
	Weight    float64 // time-decayed contribution in (0,1]
}

// sweepDecayHalfLife is the age (in bars) at which a sweep's weight halves.
const sweepDecayHalfLife = 20.0

// SweepDeviations scans for boundary sweeps of the given range. A sweep of
// the top requires highs[i] > top*(1+threshold) with the close of bar i or
// i+1 back below top; symmetrically for the bottom. Returns nil when the
// bounds are degenerate or nothing swept.
func SweepDeviations(highs, lows, closes []float64, top, bottom, threshold float64) []SweepEvent {
	n := len(closes)
	if n == 0 || len(highs) != n || len(lows) != n || top <= bottom || bottom <= 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = 0.003
	}

	decay := math.Ln2 / sweepDecayHalfLife
	var events []SweepEvent

	closedBackBelow := func(i int, level float64) bool {
		if closes[i] < level {
			return true
		}
		return i+1 < n && closes[i+1] < level
	}
	closedBackAbove := func(i int, level float64) bool {
		if closes[i] > level {
			return true
		}
		return i+1 < n && closes[i+1] > level
	}

	for i := 0; i < n; i++ {
		age := float64(n - 1 - i)
		if highs[i] > top*(1+threshold) && closedBackBelow(i, top) {
			events = append(events, SweepEvent{
				Index:     i,
				Direction: -1,
				Magnitude: (highs[i] - top) / top,
				Weight:    math.Exp(-decay * age),
			})
		}
		if lows[i] < bottom*(1-threshold) && closedBackAbove(i, bottom) {
			events = append(events, SweepEvent{
				Index:     i,
				Direction: 1,
				Magnitude: (bottom - lows[i]) / bottom,
				Weight:    math.Exp(-decay * age),
			})
		}
	}
	return events
}
