package indicators

import (
	"context"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var orderbookSubs = []models.SubIndicator{
	models.SubDepthImbalance,
	models.SubWallPressure,
	models.SubMicroPrice,
	models.SubLiquidityDepth,
}

// wallLevels caps how deep into the book wall detection looks.
const wallLevels = 10

// Orderbook scores resting liquidity: whole-book imbalance, dominant walls,
// micro-price positioning inside the spread, and bucketed depth near mid.
type Orderbook struct {
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewOrderbook(cfg *config.Config, log *logger.Logger) *Orderbook {
	return &Orderbook{
		weights: subWeights(cfg, models.FamilyOrderbook, orderbookSubs),
		log:     log.Component("indicator.orderbook"),
	}
}

func (o *Orderbook) Name() models.Family { return models.FamilyOrderbook }

func (o *Orderbook) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice == nil || slice.Book.Empty() {
		return models.NeutralIndicatorResult(models.FamilyOrderbook, "no order book")
	}
	board := newScoreboard(models.FamilyOrderbook, o.weights, o.log)
	book := slice.Book

	bidPrices := make([]float64, len(book.Bids))
	bidSizes := make([]float64, len(book.Bids))
	for i, l := range book.Bids {
		bidPrices[i] = l.Price
		bidSizes[i] = l.Size
	}
	askPrices := make([]float64, len(book.Asks))
	askSizes := make([]float64, len(book.Asks))
	for i, l := range book.Asks {
		askPrices[i] = l.Price
		askSizes[i] = l.Size
	}

	imb := kernel.DepthImbalance(bidSizes, askSizes)
	board.add(models.SubDepthImbalance, 50+imb*50, imb, "depth_imbalance")

	wall := kernel.WallRatio(bidSizes, askSizes, wallLevels)
	board.add(models.SubWallPressure, 50+wall*50, wall, "wall_ratio")

	shift := kernel.MicroPriceShift(book.Bids[0].Price, book.Bids[0].Size, book.Asks[0].Price, book.Asks[0].Size)
	if shift == 0 && book.Asks[0].Price <= book.Bids[0].Price {
		board.neutral(models.SubMicroPrice, "crossed top of book")
	} else {
		board.add(models.SubMicroPrice, 50+shift*50, shift, "micro_price_shift")
	}

	mid := book.MidPrice()
	if mid > 0 {
		depth := kernel.LiquidityDepth(bidPrices, bidSizes, askPrices, askSizes, mid)
		board.add(models.SubLiquidityDepth, depth, depth, "bucketed_depth")
	} else {
		board.neutral(models.SubLiquidityDepth, "no usable mid price")
	}

	return board.result()
}
