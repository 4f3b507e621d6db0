package rating

import (
	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

func f64(v float64) *float64 { return &v }

// alignedBullishSnapshot is a setup where every indicator confirms a long
func alignedBullishSnapshot() signals.IndicatorSnapshot {
	stack := signals.StackBullish
	div := signals.DivergenceBullish
	obv := models.DirectionBullish
	vwap := signals.VWAPAbove
	return signals.IndicatorSnapshot{
		Ticker:        "NVDA",
		Price:         140,
		EMA9:          f64(138),
		EMA20:         f64(135),
		EMA50:         f64(128),
		EMA200:        f64(110),
		EMAStack:      &stack,
		RSI14:         f64(62),
		RSIDivergence: &div,
		MACD:          &signals.MACDValues{Line: 1.2, Signal: 0.8, Histogram: 0.4},
		StochRSI:      &signals.StochRSIValues{K: 70, D: 55},
		RVOL:          f64(2.1),
		OBVTrend:      &obv,
		VWAP:          f64(139),
		PriceVsVWAP:   &vwap,
		ATRPercent:    f64(2.5),
		Bollinger:     &signals.BollingerValues{Upper: 145, Middle: 136, Lower: 127, Bandwidth: 13.2, Squeeze: true},
	}
}

func bullishRegime() *signals.MarketRegime {
	return &signals.MarketRegime{
		PrimaryRegime:    models.RegimeStrongUptrend,
		SecondaryRegime:  models.RegimeUptrend,
		MarketDirection:  models.DirectionBullish,
		VIX:              13.5,
		VIXTermStructure: signals.TermContango,
		Bias:             models.DirectionBullish,
	}
}
