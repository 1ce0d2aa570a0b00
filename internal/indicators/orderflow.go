package indicators

import (
	"context"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var orderflowSubs = []models.SubIndicator{
	models.SubCVD,
	models.SubFlowImbalance,
	models.SubAggressiveFlow,
	models.SubLargeTradeBias,
}

// Orderflow scores executed-trade pressure: cumulative volume delta, flow
// imbalance inside a trailing window, and the behavior of outsized trades.
type Orderflow struct {
	kcfg    config.KernelConfig
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewOrderflow(cfg *config.Config, log *logger.Logger) *Orderflow {
	return &Orderflow{
		kcfg:    cfg.Kernel,
		weights: subWeights(cfg, models.FamilyOrderflow, orderflowSubs),
		log:     log.Component("indicator.orderflow"),
	}
}

func (o *Orderflow) Name() models.Family { return models.FamilyOrderflow }

func (o *Orderflow) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice == nil || len(slice.Trades) == 0 {
		return models.NeutralIndicatorResult(models.FamilyOrderflow, "no trades")
	}
	board := newScoreboard(models.FamilyOrderflow, o.weights, o.log)
	prices, sizes, sides, timestamps := slice.TradeColumns()

	// cvd: terminal value plus the trailing-window rise, each normalized by
	// the volume traded over its own span, so a uniformly one-sided tape
	// saturates the blend.
	cvd := kernel.CVD(sizes, sides)
	if cvd != nil {
		var total float64
		for _, s := range sizes {
			total += s
		}
		if total > 0 {
			terminal := kernel.Last(cvd) / total
			var slope float64
			if w := min(len(cvd), 50); w >= 2 {
				rise := kernel.Last(cvd) - cvd[len(cvd)-w]
				var windowVol float64
				for _, s := range sizes[len(sizes)-w+1:] {
					windowVol += s
				}
				if windowVol > 0 {
					slope = rise / windowVol
				}
			}
			blend := kernel.Clamp(0.6*terminal+0.4*slope, -1, 1)
			board.add(models.SubCVD, 50+blend*50, kernel.Last(cvd), "cvd_terminal")
		} else {
			board.neutral(models.SubCVD, "zero traded volume")
		}
	} else {
		board.neutral(models.SubCVD, "no trades for cvd")
	}

	// trade_flow_imbalance over the configured trailing window.
	tfi := kernel.TradeFlowImbalance(sizes, sides, timestamps, o.kcfg.FlowWindowSec)
	board.add(models.SubFlowImbalance, tfi, tfi, "flow_imbalance")

	// aggressive_trades: median-relative outsized prints that moved the tape.
	if len(prices) >= 2 {
		params := kernel.DefaultAggressiveTradeParams()
		params.SizeMultiple = o.kcfg.AggressiveSize
		agg := kernel.AggressiveTrades(prices, sizes, sides, params)
		board.add(models.SubAggressiveFlow, agg, agg, "aggressive_pressure")
	} else {
		board.neutral(models.SubAggressiveFlow, "insufficient trades for aggression scan")
	}

	// large_trade_bias: which side the top size decile leans to.
	if len(sizes) >= 10 {
		bias := kernel.LargeTradeBias(sizes, sides)
		board.add(models.SubLargeTradeBias, bias, bias, "large_trade_bias")
	} else {
		board.neutral(models.SubLargeTradeBias, "insufficient trades for size decile")
	}

	return board.result()
}
