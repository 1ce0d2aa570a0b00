package indicators

import (
	"context"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var sentimentSubs = []models.SubIndicator{
	models.SubFundingRate,
	models.SubOITrend,
	models.SubChange24h,
	models.SubOIDivergence,
}

// Sentiment scores positioning context: funding, open-interest behavior and
// daily momentum. Funding is read contrarian — heavily positive funding
// means crowded longs paying to stay in, which argues against chasing.
type Sentiment struct {
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewSentiment(cfg *config.Config, log *logger.Logger) *Sentiment {
	return &Sentiment{
		weights: subWeights(cfg, models.FamilySentiment, sentimentSubs),
		log:     log.Component("indicator.sentiment"),
	}
}

func (s *Sentiment) Name() models.Family { return models.FamilySentiment }

func (s *Sentiment) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice == nil || (slice.Ticker == nil && len(slice.OpenInterest) == 0) {
		return models.NeutralIndicatorResult(models.FamilySentiment, "no ticker or open interest")
	}
	board := newScoreboard(models.FamilySentiment, s.weights, s.log)

	// funding_rate: ±0.05% per interval saturates the contrarian read.
	if slice.Ticker != nil {
		fr := slice.Ticker.FundingRate
		board.add(models.SubFundingRate, 50-kernel.Clamp(fr/0.0005, -1, 1)*50, fr, "funding_contrarian")
	} else {
		board.neutral(models.SubFundingRate, "no ticker")
	}

	// price_change_24h: ±10% saturates.
	if slice.Ticker != nil {
		ch := slice.Ticker.Change24h
		board.add(models.SubChange24h, 50+kernel.Clamp(ch/10, -1, 1)*50, ch, "daily_momentum")
	} else {
		board.neutral(models.SubChange24h, "no ticker")
	}

	oiDrift, priceDrift, oiOK := s.drifts(slice)

	// open_interest_trend: OI rising with price = long buildup (bullish),
	// OI rising into falling price = short buildup (bearish).
	if oiOK {
		score := kernel.Clamp(oiDrift*5, -1, 1) * sign(priceDrift)
		board.add(models.SubOITrend, 50+score*50, oiDrift, oiBehavior(oiDrift, priceDrift))
	} else {
		board.neutral(models.SubOITrend, "insufficient open interest history")
	}

	// oi_price_divergence: falling OI against the prevailing move marks an
	// unwinding trend; agreement scores neutral-to-confirming.
	if oiOK {
		div := 0.0
		if sign(oiDrift) != 0 && sign(priceDrift) != 0 && sign(oiDrift) != sign(priceDrift) {
			// Divergence fades the price move.
			div = -sign(priceDrift) * kernel.Clamp(absf(oiDrift)*5, 0, 1)
		}
		board.add(models.SubOIDivergence, 50+div*50, oiDrift, "oi_price_divergence")
	} else {
		board.neutral(models.SubOIDivergence, "insufficient open interest history")
	}

	return board.result()
}

// drifts computes fractional OI and price drift over the OI history window.
func (s *Sentiment) drifts(slice *models.MarketDataSlice) (oiDrift, priceDrift float64, ok bool) {
	oi := slice.OpenInterest
	if len(oi) < 2 || oi[0].Value <= 0 {
		return 0, 0, false
	}
	oiDrift = (oi[len(oi)-1].Value - oi[0].Value) / oi[0].Value

	closes := slice.Closes()
	if len(closes) >= 2 && closes[0] > 0 {
		priceDrift = (closes[len(closes)-1] - closes[0]) / closes[0]
	}
	return oiDrift, priceDrift, true
}

func oiBehavior(oiDrift, priceDrift float64) string {
	switch {
	case oiDrift > 0 && priceDrift > 0:
		return "long_buildup"
	case oiDrift > 0 && priceDrift < 0:
		return "short_buildup"
	case oiDrift < 0 && priceDrift > 0:
		return "short_covering"
	case oiDrift < 0 && priceDrift < 0:
		return "long_liquidation"
	default:
		return "neutral"
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
