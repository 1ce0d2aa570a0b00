package kernel

// OrderBlock is a candle (or collapsed cluster) with a dominant directional
// body on unusually high volume, read as a zone of concentrated activity.
type OrderBlock struct {
	Index   int
	High    float64
	Low     float64
	Volume  float64
	Bullish bool
}

// OrderBlockParams tunes order block qualification. The defaults mirror the
// empirically chosen production constants; they are configurable, not
// load-bearing.
type OrderBlockParams struct {
	BodyRatio      float64 // body/range minimum, default 0.7
	VolumeQuantile float64 // volume quantile floor, default 0.8 (top quintile)
	MinDistance    int     // bars within which consecutive blocks collapse
	MaxBlocks      int     // most recent blocks kept per side
}

// DefaultOrderBlockParams returns the production defaults.
func DefaultOrderBlockParams() OrderBlockParams {
	return OrderBlockParams{BodyRatio: 0.7, VolumeQuantile: 0.8, MinDistance: 3, MaxBlocks: 10}
}

// OrderBlocks scans candles for order blocks. A candle qualifies when its
// body covers more than BodyRatio of its total range and its volume sits in
// the top quintile of the lookback distribution. Consecutive qualifiers
// within MinDistance bars collapse into the higher-volume one. Returns the
// most recent MaxBlocks per side, oldest first; degenerate input yields
// empty slices.
func OrderBlocks(opens, highs, lows, closes, volumes []float64, p OrderBlockParams) (bullish, bearish []OrderBlock) {
	n := len(closes)
	if n == 0 || len(opens) != n || len(highs) != n || len(lows) != n || len(volumes) != n {
		return nil, nil
	}
	if p.BodyRatio <= 0 || p.MaxBlocks <= 0 {
		p = DefaultOrderBlockParams()
	}
	volFloor := Quantile(volumes, p.VolumeQuantile)

	var blocks []OrderBlock
	for i := 0; i < n; i++ {
		rng := highs[i] - lows[i]
		if rng <= 0 {
			continue
		}
		body := closes[i] - opens[i]
		if body < 0 {
			body = -body
		}
		if body/rng <= p.BodyRatio || volumes[i] < volFloor || volumes[i] == 0 {
			continue
		}
		b := OrderBlock{
			Index:   i,
			High:    highs[i],
			Low:     lows[i],
			Volume:  volumes[i],
			Bullish: closes[i] > opens[i],
		}
		if last := len(blocks) - 1; last >= 0 &&
			blocks[last].Bullish == b.Bullish &&
			i-blocks[last].Index <= p.MinDistance {
			if b.Volume > blocks[last].Volume {
				blocks[last] = b
			}
			continue
		}
		blocks = append(blocks, b)
	}

	for _, b := range blocks {
		if b.Bullish {
			bullish = append(bullish, b)
		} else {
			bearish = append(bearish, b)
		}
	}
	if len(bullish) > p.MaxBlocks {
		bullish = bullish[len(bullish)-p.MaxBlocks:]
	}
	if len(bearish) > p.MaxBlocks {
		bearish = bearish[len(bearish)-p.MaxBlocks:]
	}
	return bullish, bearish
}
