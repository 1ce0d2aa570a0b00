package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeframe(t *testing.T) {
	assert.Equal(t, TF1m, NormalizeTimeframe(""))
	assert.Equal(t, TF30m, NormalizeTimeframe("30m"))
	assert.Equal(t, TF1m, NormalizeTimeframe("7d"))
	assert.True(t, IsValidTimeframe(TF4h))
	assert.False(t, IsValidTimeframe(Timeframe("3w")))
}

func TestBiasForScore(t *testing.T) {
	assert.Equal(t, BiasBullish, BiasForScore(70))
	assert.Equal(t, BiasBearish, BiasForScore(30))
	assert.Equal(t, BiasNeutral, BiasForScore(52))
	assert.Equal(t, BiasNeutral, BiasForScore(48))
}

func testFingerprintSlice() *MarketDataSlice {
	return &MarketDataSlice{
		Symbol:    "BTCUSDT",
		Timeframe: TF5m,
		Candles: []Candle{
			{OpenTime: 1, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 10},
			{OpenTime: 2, Open: 100.5, High: 102, Low: 100, Close: 101, Volume: 12},
		},
		Trades: []Trade{{Price: 101, Size: 0.5, Side: SideBuy, Timestamp: 3}},
		Book: &OrderBook{
			Bids:      []BookLevel{{Price: 100.9, Size: 5}},
			Asks:      []BookLevel{{Price: 101.1, Size: 4}},
			Timestamp: 4,
		},
		Ticker:       &Ticker{LastPrice: 101, Change24h: 1.2, FundingRate: 0.0001},
		OpenInterest: []OpenInterestPoint{{Timestamp: 5, Value: 1000}},
	}
}

func TestFingerprintStable(t *testing.T) {
	a := testFingerprintSlice()
	b := testFingerprintSlice()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "identical content fingerprints identically")
	assert.Equal(t, a.Fingerprint(), a.Fingerprint(), "fingerprinting is repeatable")
}

func TestFingerprintSensitive(t *testing.T) {
	base := testFingerprintSlice().Fingerprint()

	mutated := testFingerprintSlice()
	mutated.Candles[1].Close += 0.0001
	assert.NotEqual(t, base, mutated.Fingerprint(), "a one-tick change must change the fingerprint")

	retagged := testFingerprintSlice()
	retagged.Timeframe = TF30m
	assert.NotEqual(t, base, retagged.Fingerprint())

	var nilSlice *MarketDataSlice
	assert.EqualValues(t, 0, nilSlice.Fingerprint())
}

func TestLastClose(t *testing.T) {
	s := testFingerprintSlice()
	assert.Equal(t, 101.0, s.LastClose())

	var empty *MarketDataSlice
	assert.True(t, empty.Empty())
	assert.Zero(t, empty.LastClose())
}

func TestTradeColumns(t *testing.T) {
	s := testFingerprintSlice()
	prices, sizes, sides, timestamps := s.TradeColumns()
	assert.Equal(t, []float64{101}, prices)
	assert.Equal(t, []float64{0.5}, sizes)
	assert.Equal(t, []int8{1}, sides)
	assert.Equal(t, []int64{3}, timestamps)

	var empty *MarketDataSlice
	p, sz, sd, ts := empty.TradeColumns()
	assert.Nil(t, p)
	assert.Nil(t, sz)
	assert.Nil(t, sd)
	assert.Nil(t, ts)
}
