package kernel

import "testing"

func TestRSI(t *testing.T) {
	closes := []float64{100, 102, 101, 103, 102, 104}
	approx(t, RSI(closes, 3), 77.2727, 0.01, "wilder rsi")
}

func TestRSIBounds(t *testing.T) {
	up := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	approx(t, RSI(up, 3), 100, 0, "all gains")
	down := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	approx(t, RSI(down, 3), 0, 0, "all losses")
}

func TestRSINeutral(t *testing.T) {
	approx(t, RSI([]float64{100, 101}, 14), 50, 0, "short series")
	flat := []float64{100, 100, 100, 100, 100, 100}
	approx(t, RSI(flat, 3), 50, 0, "flat series")
}

func TestMACDHistogram(t *testing.T) {
	// Flat then rising: the MACD line runs ahead of its signal line.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		if i >= 30 {
			closes[i] = 100 + float64(i-29)
		}
	}
	if h := MACDHistogram(closes, 12, 26, 9); h <= 0 {
		t.Fatalf("rising tape must give a positive histogram, got %f", h)
	}
	approx(t, MACDHistogram([]float64{1, 2, 3}, 12, 26, 9), 0, 0, "short series")
}

func TestBollingerPosition(t *testing.T) {
	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 100
	}
	approx(t, BollingerPosition(flat, 20, 2), 0.5, 0, "flat")

	spikeUp := make([]float64, 25)
	for i := range spikeUp {
		spikeUp[i] = 100
	}
	spikeUp[24] = 110
	approx(t, BollingerPosition(spikeUp, 20, 2), 1, 0, "upper breakout")

	spikeDown := make([]float64, 25)
	for i := range spikeDown {
		spikeDown[i] = 100
	}
	spikeDown[24] = 90
	approx(t, BollingerPosition(spikeDown, 20, 2), 0, 0, "lower breakout")

	approx(t, BollingerPosition([]float64{1, 2}, 20, 2), 0.5, 0, "short series")
}

func TestATR(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 101
		lows[i] = 99
		closes[i] = 100
	}
	approx(t, ATR(highs, lows, closes, 14), 2, 1e-9, "constant range")
	approx(t, ATR(highs[:5], lows[:5], closes[:5], 14), 0, 0, "short series")
}

func TestATRGap(t *testing.T) {
	// A gap beyond the bar range must widen the true range.
	highs := []float64{101, 101, 111}
	lows := []float64{99, 99, 109}
	closes := []float64{100, 100, 110}
	narrow := ATR(highs[:2], lows[:2], closes[:2], 1)
	gapped := ATR(highs, lows, closes, 1)
	if gapped <= narrow {
		t.Fatalf("gap must widen ATR: %f vs %f", gapped, narrow)
	}
}

func TestOBV(t *testing.T) {
	closes := []float64{100, 101, 100, 100, 102}
	volumes := []float64{10, 20, 30, 40, 50}
	out := OBV(closes, volumes)
	want := []float64{0, 20, -10, -10, 40}
	if len(out) != len(want) {
		t.Fatalf("length mismatch: %d", len(out))
	}
	for i := range want {
		approx(t, out[i], want[i], 0, "obv series")
	}
	if OBV([]float64{100}, []float64{1}) != nil {
		t.Fatalf("single bar must yield nil")
	}
}
