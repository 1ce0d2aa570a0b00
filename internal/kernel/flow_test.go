package kernel

import "testing"

func TestCVD(t *testing.T) {
	volumes := []float64{5, 3, 2}
	sides := []int8{1, -1, 1}
	out := CVD(volumes, sides)
	want := []float64{5, 2, 4}
	for i := range want {
		approx(t, out[i], want[i], 0, "cvd series")
	}
	if CVD(nil, nil) != nil {
		t.Fatalf("empty input must yield nil")
	}
}

func TestTradeFlowImbalance(t *testing.T) {
	volumes := []float64{10, 10, 10, 10}
	buys := []int8{1, 1, 1, 1}
	ts := []int64{1000, 2000, 3000, 4000}
	approx(t, TradeFlowImbalance(volumes, buys, ts, 60), 100, 0, "all buys")

	balanced := []int8{1, -1, 1, -1}
	approx(t, TradeFlowImbalance(volumes, balanced, ts, 60), 50, 0, "balanced")

	approx(t, TradeFlowImbalance(nil, nil, nil, 60), 50, 0, "empty")
}

func TestTradeFlowImbalanceWindow(t *testing.T) {
	// The early sell sits outside the 10s window and must not count.
	volumes := []float64{10, 10}
	sides := []int8{-1, 1}
	ts := []int64{0, 100000}
	approx(t, TradeFlowImbalance(volumes, sides, ts, 10), 100, 0, "windowed")
}

func TestAggressiveTrades(t *testing.T) {
	n := 21
	prices := make([]float64, n)
	volumes := make([]float64, n)
	sides := make([]int8, n)
	for i := 0; i < n; i++ {
		prices[i] = 100
		volumes[i] = 10
		sides[i] = -1
	}
	// A single oversized buy that moves the tape.
	prices[n-1] = 100.2
	volumes[n-1] = 100
	sides[n-1] = 1

	score := AggressiveTrades(prices, volumes, sides, DefaultAggressiveTradeParams())
	approx(t, score, 100, 0, "lone aggressive buy")
}

func TestAggressiveTradesNeutral(t *testing.T) {
	// Uniform tape: nothing clears the size multiple.
	prices := []float64{100, 100.1, 100, 100.1, 100}
	volumes := []float64{10, 10, 10, 10, 10}
	sides := []int8{1, -1, 1, -1, 1}
	approx(t, AggressiveTrades(prices, volumes, sides, DefaultAggressiveTradeParams()), 50, 0, "uniform tape")
	approx(t, AggressiveTrades([]float64{100}, []float64{1}, []int8{1}, DefaultAggressiveTradeParams()), 50, 0, "single trade")
}

func TestLargeTradeBias(t *testing.T) {
	volumes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
	sides := []int8{-1, -1, -1, -1, -1, -1, -1, -1, -1, 1}
	// Top decile floor is 9: the 9-lot sell and the 100-lot buy qualify.
	approx(t, LargeTradeBias(volumes, sides), 50+50*91.0/109.0, 1e-9, "top decile bias")

	approx(t, LargeTradeBias(volumes[:5], sides[:5]), 50, 0, "too few trades")
}
