package models

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Timeframe identifies one candle aggregation horizon.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF30m Timeframe = "30m"
	TF4h  Timeframe = "4h"
)

// Timeframes returns every supported timeframe in ascending horizon order.
func Timeframes() []Timeframe {
	return []Timeframe{TF1m, TF5m, TF30m, TF4h}
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1m, TF5m, TF30m, TF4h:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the base scoring timeframe.
func DefaultTimeframe() Timeframe { return TF1m }

// NormalizeTimeframe converts a raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// TradeSide is the aggressor side of an executed trade.
type TradeSide int8

const (
	SideSell TradeSide = -1
	SideBuy  TradeSide = 1
)

// Candle is one OHLCV bar. OpenTime is epoch milliseconds.
type Candle struct {
	OpenTime int64   `json:"open_time"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// Trade is one executed trade. Timestamp is epoch milliseconds.
type Trade struct {
	Price     float64   `json:"price"`
	Size      float64   `json:"size"`
	Side      TradeSide `json:"side"`
	Timestamp int64     `json:"timestamp"`
}

// BookLevel is one resting price level of an order book side.
type BookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook is a point-in-time depth snapshot. Bids are sorted descending
// by price, asks ascending.
type OrderBook struct {
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	Timestamp int64       `json:"timestamp"`
}

// Empty reports whether the snapshot has no usable depth.
func (b *OrderBook) Empty() bool {
	return b == nil || len(b.Bids) == 0 || len(b.Asks) == 0
}

// MidPrice returns the bid/ask midpoint, or 0 for an empty book.
func (b *OrderBook) MidPrice() float64 {
	if b.Empty() {
		return 0
	}
	return (b.Bids[0].Price + b.Asks[0].Price) / 2
}

// Ticker carries the slow-moving per-symbol stats used by sentiment scoring.
type Ticker struct {
	LastPrice   float64 `json:"last_price"`
	Change24h   float64 `json:"change_24h"` // percent, e.g. 4.2 for +4.2%
	FundingRate float64 `json:"funding_rate"`
}

// OpenInterestPoint is one open-interest observation (epoch ms, contracts).
type OpenInterestPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MarketDataSlice bundles everything one indicator family needs for a single
// (symbol, timeframe) computation. Candles and trades are time-ordered
// ascending and all timestamps share the same epoch-millisecond unit.
// A slice is immutable for the duration of a scoring pass; partially
// populated slices (nil book, empty trades) are legal inputs and degrade the
// dependent sub-indicators to neutral rather than failing the pass.
type MarketDataSlice struct {
	Symbol       string              `json:"symbol"`
	Timeframe    Timeframe           `json:"timeframe"`
	Candles      []Candle            `json:"candles"`
	Trades       []Trade             `json:"trades"`
	Book         *OrderBook          `json:"book,omitempty"`
	Ticker       *Ticker             `json:"ticker,omitempty"`
	OpenInterest []OpenInterestPoint `json:"open_interest,omitempty"`
}

// Empty reports whether the slice carries no candle data at all.
func (s *MarketDataSlice) Empty() bool {
	return s == nil || len(s.Candles) == 0
}

// LastClose returns the most recent close, or 0 when no candles exist.
func (s *MarketDataSlice) LastClose() float64 {
	if s.Empty() {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}

// Opens extracts the open column.
func (s *MarketDataSlice) Opens() []float64 { return s.column(func(c Candle) float64 { return c.Open }) }

// Highs extracts the high column.
func (s *MarketDataSlice) Highs() []float64 { return s.column(func(c Candle) float64 { return c.High }) }

// Lows extracts the low column.
func (s *MarketDataSlice) Lows() []float64 { return s.column(func(c Candle) float64 { return c.Low }) }

// Closes extracts the close column.
func (s *MarketDataSlice) Closes() []float64 {
	return s.column(func(c Candle) float64 { return c.Close })
}

// Volumes extracts the volume column.
func (s *MarketDataSlice) Volumes() []float64 {
	return s.column(func(c Candle) float64 { return c.Volume })
}

func (s *MarketDataSlice) column(f func(Candle) float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = f(c)
	}
	return out
}

// TradeColumns flattens trades into the parallel arrays the kernel routines
// consume.
func (s *MarketDataSlice) TradeColumns() (prices, sizes []float64, sides []int8, timestamps []int64) {
	if s == nil || len(s.Trades) == 0 {
		return nil, nil, nil, nil
	}
	n := len(s.Trades)
	prices = make([]float64, n)
	sizes = make([]float64, n)
	sides = make([]int8, n)
	timestamps = make([]int64, n)
	for i, t := range s.Trades {
		prices[i] = t.Price
		sizes[i] = t.Size
		sides[i] = int8(t.Side)
		timestamps[i] = t.Timestamp
	}
	return prices, sizes, sides, timestamps
}

// Fingerprint hashes the slice content into the cache key component that
// identifies this exact snapshot. Two slices with identical market content
// fingerprint identically regardless of when they were assembled.
func (s *MarketDataSlice) Fingerprint() uint64 {
	if s == nil {
		return 0
	}
	h := xxhash.New()
	var buf [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	writeI := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}

	_, _ = h.WriteString(s.Symbol)
	_, _ = h.WriteString(string(s.Timeframe))
	for _, c := range s.Candles {
		writeI(c.OpenTime)
		writeF(c.Open)
		writeF(c.High)
		writeF(c.Low)
		writeF(c.Close)
		writeF(c.Volume)
	}
	for _, t := range s.Trades {
		writeI(t.Timestamp)
		writeF(t.Price)
		writeF(t.Size)
		writeI(int64(t.Side))
	}
	if s.Book != nil {
		writeI(s.Book.Timestamp)
		for _, l := range s.Book.Bids {
			writeF(l.Price)
			writeF(l.Size)
		}
		for _, l := range s.Book.Asks {
			writeF(l.Price)
			writeF(l.Size)
		}
	}
	if s.Ticker != nil {
		writeF(s.Ticker.LastPrice)
		writeF(s.Ticker.Change24h)
		writeF(s.Ticker.FundingRate)
	}
	for _, p := range s.OpenInterest {
		writeI(p.Timestamp)
		writeF(p.Value)
	}
	return h.Sum64()
}
