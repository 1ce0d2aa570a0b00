package indicators

import (
	"context"
	"fmt"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var technicalSubs = []models.SubIndicator{
	models.SubRSI,
	models.SubEMATrend,
	models.SubMACD,
	models.SubBollinger,
	models.SubATRVolatility,
}

// Technical scores classic momentum and volatility indicators over candles.
type Technical struct {
	kcfg    config.KernelConfig
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewTechnical(cfg *config.Config, log *logger.Logger) *Technical {
	return &Technical{
		kcfg:    cfg.Kernel,
		weights: subWeights(cfg, models.FamilyTechnical, technicalSubs),
		log:     log.Component("indicator.technical"),
	}
}

func (t *Technical) Name() models.Family { return models.FamilyTechnical }

func (t *Technical) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice.Empty() {
		return models.NeutralIndicatorResult(models.FamilyTechnical, "no candles")
	}
	board := newScoreboard(models.FamilyTechnical, t.weights, t.log)
	closes := slice.Closes()
	highs := slice.Highs()
	lows := slice.Lows()
	lastClose := closes[len(closes)-1]

	// rsi: Wilder momentum read directly as a 0-100 directional score.
	if len(closes) > t.kcfg.RSIPeriod {
		rsi := kernel.RSI(closes, t.kcfg.RSIPeriod)
		board.add(models.SubRSI, rsi, rsi, rsiLabel(rsi))
	} else {
		board.neutral(models.SubRSI, "insufficient candles for rsi")
	}

	// ema_trend: distance of price from the slow EMA, ±2% saturates.
	if len(closes) >= t.kcfg.EMASlow {
		ema := kernel.EMA(closes, t.kcfg.EMASlow)
		ref := ema[len(ema)-1]
		if ref > 0 {
			drift := (lastClose - ref) / ref
			board.add(models.SubEMATrend, 50+kernel.Clamp(drift/0.02, -1, 1)*50, drift, "price_vs_ema")
		} else {
			board.neutral(models.SubEMATrend, "non-positive ema")
		}
	} else {
		board.neutral(models.SubEMATrend, "insufficient candles for ema")
	}

	// macd: histogram sign and magnitude, normalized by price.
	if len(closes) >= t.kcfg.EMASlow+t.kcfg.MACDSignal && lastClose > 0 {
		hist := kernel.MACDHistogram(closes, t.kcfg.EMAFast, t.kcfg.EMASlow, t.kcfg.MACDSignal)
		norm := hist / lastClose
		board.add(models.SubMACD, 50+kernel.Clamp(norm/0.005, -1, 1)*50, hist, "macd_histogram")
	} else {
		board.neutral(models.SubMACD, "insufficient candles for macd")
	}

	// bollinger: %B position inside the bands.
	if len(closes) >= t.kcfg.BollingerWindow {
		pb := kernel.BollingerPosition(closes, t.kcfg.BollingerWindow, t.kcfg.BollingerMult)
		board.add(models.SubBollinger, pb*100, pb, "percent_b")
	} else {
		board.neutral(models.SubBollinger, "insufficient candles for bollinger")
	}

	// atr_volatility: trend direction scaled down by volatility regime; a
	// directional move is worth more when ATR is quiet.
	if len(closes) > t.kcfg.ATRPeriod && lastClose > 0 {
		atr := kernel.ATR(highs, lows, closes, t.kcfg.ATRPeriod)
		if atr > 0 {
			lookback := t.kcfg.ATRPeriod
			drift := lastClose - closes[len(closes)-1-lookback]
			strength := kernel.Clamp(drift/(atr*float64(lookback)), -1, 1)
			board.add(models.SubATRVolatility, 50+strength*50, atr, "atr_scaled_drift")
		} else {
			board.neutral(models.SubATRVolatility, "flat range")
		}
	} else {
		board.neutral(models.SubATRVolatility, "insufficient candles for atr")
	}

	return board.result()
}

func rsiLabel(rsi float64) string {
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi <= 30:
		return "oversold"
	default:
		return fmt.Sprintf("rsi_%.0f", rsi)
	}
}
