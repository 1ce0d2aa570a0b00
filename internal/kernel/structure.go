package kernel

// BreakDirection is the direction of a market structure break.
type BreakDirection int

const (
	BreakBearish BreakDirection = -1
	BreakBullish BreakDirection = 1
)

// BreakEvent is one confirmed break of market structure: a close beyond the
// most recent confirmed swing extreme by more than the noise threshold.
type BreakEvent struct {
	Index     int
	Direction BreakDirection
	Level     float64 // the swing level that was broken
}

// MarketStructureBreaks walks the series tracking the latest confirmed swing
// high and swing low (confirmed once `window` bars have passed the extreme)
// and emits an event whenever a close clears the prior swing by more than
// `noise` (fractional, e.g. 0.001). Returns nil for series too short to
// confirm a swing.
func MarketStructureBreaks(highs, lows, closes []float64, window int, noise float64) []BreakEvent {
	n := len(closes)
	if window <= 0 || n != len(highs) || n != len(lows) || n < 2*window+1 {
		return nil
	}
	if noise < 0 {
		noise = 0
	}

	swings := SwingPoints(highs, lows, window)
	if len(swings) == 0 {
		return nil
	}

	var events []BreakEvent
	var lastHigh, lastLow *SwingPoint
	si := 0
	for i := 0; i < n; i++ {
		// A swing at index k is confirmed only once bar k+window has closed.
		for si < len(swings) && swings[si].Index+window <= i {
			if swings[si].High {
				lastHigh = &swings[si]
			} else {
				lastLow = &swings[si]
			}
			si++
		}
		if lastHigh != nil && closes[i] > lastHigh.Price*(1+noise) {
			events = append(events, BreakEvent{Index: i, Direction: BreakBullish, Level: lastHigh.Price})
			lastHigh = nil // broken structure needs a fresh swing to re-arm
		}
		if lastLow != nil && closes[i] < lastLow.Price*(1-noise) {
			events = append(events, BreakEvent{Index: i, Direction: BreakBearish, Level: lastLow.Price})
			lastLow = nil
		}
	}
	return events
}
