package kernel

import "math"

// depthBuckets are the fractional distances from mid used to bucket resting
// liquidity. Liquidity close to the touch carries more weight than liquidity
// parked deep in the book.
var depthBuckets = []struct {
	width  float64
	weight float64
}{
	{0.0025, 0.5},
	{0.005, 0.3},
	{0.01, 0.15},
	{0.02, 0.05},
}

// LiquidityDepth aggregates resting liquidity per price bucket around mid
// and scores the bid/ask imbalance on [0,100], 50 neutral. Buckets nearer
// the touch dominate the score. Returns 50 when either side of the book is
// empty or mid is not positive.
func LiquidityDepth(bidPrices, bidSizes, askPrices, askSizes []float64, mid float64) float64 {
	if len(bidPrices) == 0 || len(askPrices) == 0 || mid <= 0 ||
		len(bidPrices) != len(bidSizes) || len(askPrices) != len(askSizes) {
		return 50
	}

	score := 0.0
	used := 0.0
	for _, b := range depthBuckets {
		bid := bucketVolume(bidPrices, bidSizes, mid, b.width)
		ask := bucketVolume(askPrices, askSizes, mid, b.width)
		total := bid + ask
		if total <= 0 {
			continue
		}
		score += b.weight * (bid - ask) / total
		used += b.weight
	}
	if used <= 0 {
		return 50
	}
	return Clamp(50+50*score/used, 0, 100)
}

// bucketVolume sums sizes within the fractional width of mid.
func bucketVolume(prices, sizes []float64, mid, width float64) float64 {
	sum := 0.0
	for i := range prices {
		if math.Abs(prices[i]-mid)/mid <= width {
			sum += sizes[i]
		}
	}
	return sum
}

// DepthImbalance is the classic whole-book imbalance
// (bidQty-askQty)/(bidQty+askQty) in [-1,1]; 0 for an empty book.
func DepthImbalance(bidSizes, askSizes []float64) float64 {
	var bid, ask float64
	for _, s := range bidSizes {
		bid += s
	}
	for _, s := range askSizes {
		ask += s
	}
	total := bid + ask
	if total <= 0 {
		return 0
	}
	return (bid - ask) / total
}

// WallRatio compares the largest single resting level on each side within
// the top `levels` entries. Returns a value in [-1,1]: positive when the
// dominant wall is on the bid side. Zero for an empty book.
func WallRatio(bidSizes, askSizes []float64, levels int) float64 {
	maxOf := func(xs []float64) float64 {
		m := 0.0
		for i := 0; i < len(xs) && i < levels; i++ {
			if xs[i] > m {
				m = xs[i]
			}
		}
		return m
	}
	bidWall := maxOf(bidSizes)
	askWall := maxOf(askSizes)
	total := bidWall + askWall
	if total <= 0 {
		return 0
	}
	return (bidWall - askWall) / total
}

// MicroPriceShift reads where the size-weighted micro price sits inside the
// spread: +1 when pinned to the ask (buy pressure), -1 at the bid. Zero for
// a degenerate top of book.
func MicroPriceShift(bestBidPrice, bestBidSize, bestAskPrice, bestAskSize float64) float64 {
	if bestBidSize+bestAskSize <= 0 || bestAskPrice <= bestBidPrice {
		return 0
	}
	micro := (bestBidPrice*bestAskSize + bestAskPrice*bestBidSize) / (bestBidSize + bestAskSize)
	mid := (bestBidPrice + bestAskPrice) / 2
	half := (bestAskPrice - bestBidPrice) / 2
	return Clamp((micro-mid)/half, -1, 1)
}
