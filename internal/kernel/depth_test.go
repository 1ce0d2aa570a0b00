package kernel

import "testing"

func TestDepthImbalance(t *testing.T) {
	approx(t, DepthImbalance([]float64{30}, []float64{10}), 0.5, 1e-12, "bid heavy")
	approx(t, DepthImbalance([]float64{10}, []float64{30}), -0.5, 1e-12, "ask heavy")
	approx(t, DepthImbalance(nil, nil), 0, 0, "empty book")
}

func TestWallRatio(t *testing.T) {
	bids := []float64{5, 50}
	asks := []float64{10}
	approx(t, WallRatio(bids, asks, 10), 40.0/60.0, 1e-12, "bid wall")
	// Shrinking the scan to the touch hides the deep bid wall.
	approx(t, WallRatio(bids, asks, 1), -5.0/15.0, 1e-12, "top of book only")
	approx(t, WallRatio(nil, nil, 10), 0, 0, "empty book")
}

func TestMicroPriceShift(t *testing.T) {
	// Heavy bid pushes the micro price toward the ask.
	approx(t, MicroPriceShift(99, 3, 101, 1), 0.5, 1e-12, "bid heavy")
	approx(t, MicroPriceShift(99, 1, 101, 3), -0.5, 1e-12, "ask heavy")
	approx(t, MicroPriceShift(100, 1, 100, 1), 0, 0, "crossed book")
	approx(t, MicroPriceShift(99, 0, 101, 0), 0, 0, "no size")
}

func TestLiquidityDepth(t *testing.T) {
	bidPrices := []float64{99.9}
	bidSizes := []float64{100}
	askPrices := []float64{100.1}
	askSizes := []float64{50}
	// Both levels sit inside every bucket: imbalance is (100-50)/150 in each.
	approx(t, LiquidityDepth(bidPrices, bidSizes, askPrices, askSizes, 100), 50+50.0/3.0, 1e-9, "near touch")

	approx(t, LiquidityDepth(nil, nil, askPrices, askSizes, 100), 50, 0, "one-sided book")
	approx(t, LiquidityDepth(bidPrices, bidSizes, askPrices, askSizes, 0), 50, 0, "bad mid")
}

func TestLiquidityDepthFarLiquidity(t *testing.T) {
	// Deep liquidity 1.5% out only lands in the wide buckets, so it moves the
	// score less than the same size at the touch would.
	near := LiquidityDepth([]float64{99.9}, []float64{100}, []float64{100.1}, []float64{100}, 100)
	far := LiquidityDepth([]float64{98.5, 99.9}, []float64{500, 100}, []float64{100.1}, []float64{100}, 100)
	if far <= near {
		t.Fatalf("deep bid liquidity must still lift the score: near=%f far=%f", near, far)
	}
	atTouch := LiquidityDepth([]float64{99.9}, []float64{600}, []float64{100.1}, []float64{100}, 100)
	if atTouch <= far {
		t.Fatalf("liquidity at the touch must outweigh deep liquidity: touch=%f far=%f", atTouch, far)
	}
}
