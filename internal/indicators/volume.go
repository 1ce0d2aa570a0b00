package indicators

import (
	"context"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
	"Confluence/pkg/logger"
)

var volumeSubs = []models.SubIndicator{
	models.SubRelativeVolume,
	models.SubVolumeTrend,
	models.SubOBV,
	models.SubVolumeSpikes,
}

// Volume scores participation: how much volume backs the current move and
// which direction it leans.
type Volume struct {
	kcfg    config.KernelConfig
	weights map[models.SubIndicator]float64
	log     *logger.Logger
}

func NewVolume(cfg *config.Config, log *logger.Logger) *Volume {
	return &Volume{
		kcfg:    cfg.Kernel,
		weights: subWeights(cfg, models.FamilyVolume, volumeSubs),
		log:     log.Component("indicator.volume"),
	}
}

func (v *Volume) Name() models.Family { return models.FamilyVolume }

func (v *Volume) Compute(_ context.Context, slice *models.MarketDataSlice) models.IndicatorResult {
	if slice.Empty() {
		return models.NeutralIndicatorResult(models.FamilyVolume, "no candles")
	}
	board := newScoreboard(models.FamilyVolume, v.weights, v.log)
	closes := slice.Closes()
	volumes := slice.Volumes()
	n := len(closes)
	window := v.kcfg.VolumeAvgWindow

	// Directional sign of the latest bar: volume confirms whichever way the
	// bar closed.
	barDir := 0.0
	last := slice.Candles[n-1]
	switch {
	case last.Close > last.Open:
		barDir = 1
	case last.Close < last.Open:
		barDir = -1
	}

	// relative_volume: current vs trailing average, signed by bar direction.
	if n >= window {
		avg := kernel.SMA(volumes, window)
		if avg > 0 {
			rvol := volumes[n-1] / avg
			push := kernel.Clamp(rvol-1, -1, 1) * barDir
			board.add(models.SubRelativeVolume, 50+push*50, rvol, "relative_volume")
		} else {
			board.neutral(models.SubRelativeVolume, "zero average volume")
		}
	} else {
		board.neutral(models.SubRelativeVolume, "insufficient candles for volume average")
	}

	// volume_trend: rising participation amplifies the price drift over the
	// same window.
	if n >= window && window >= 2 {
		volSlope := kernel.Slope(volumes, window)
		avg := kernel.SMA(volumes, window)
		priceDrift := closes[n-1] - closes[n-window]
		if avg > 0 {
			trend := kernel.Clamp(volSlope/avg*10, -1, 1)
			dir := 0.0
			if priceDrift > 0 {
				dir = 1
			} else if priceDrift < 0 {
				dir = -1
			}
			board.add(models.SubVolumeTrend, 50+trend*dir*50, volSlope, "volume_slope")
		} else {
			board.neutral(models.SubVolumeTrend, "zero average volume")
		}
	} else {
		board.neutral(models.SubVolumeTrend, "insufficient candles for volume trend")
	}

	// obv: slope of on-balance volume, normalized by average volume.
	if obv := kernel.OBV(closes, volumes); obv != nil {
		avg := kernel.SMA(volumes, min(window, n))
		if avg > 0 {
			slope := kernel.Slope(obv, window)
			board.add(models.SubOBV, 50+kernel.Clamp(slope/avg, -1, 1)*50, kernel.Last(obv), "obv_slope")
		} else {
			board.neutral(models.SubOBV, "zero average volume")
		}
	} else {
		board.neutral(models.SubOBV, "insufficient candles for obv")
	}

	// volume_spikes: bars above 1.5x average vote with their close direction,
	// recent spikes weighted by recency.
	if n >= window {
		avg := kernel.SMA(volumes, window)
		if avg > 0 {
			var vote, total float64
			for i := n - window; i < n; i++ {
				if volumes[i] < 1.5*avg {
					continue
				}
				recency := float64(i-(n-window)+1) / float64(window)
				total += recency
				if closes[i] > slice.Candles[i].Open {
					vote += recency
				} else if closes[i] < slice.Candles[i].Open {
					vote -= recency
				}
			}
			if total > 0 {
				board.add(models.SubVolumeSpikes, 50+vote/total*50, total, "spike_vote")
			} else {
				board.add(models.SubVolumeSpikes, 50, 0, "no_spikes")
			}
		} else {
			board.neutral(models.SubVolumeSpikes, "zero average volume")
		}
	} else {
		board.neutral(models.SubVolumeSpikes, "insufficient candles for spike scan")
	}

	return board.result()
}
