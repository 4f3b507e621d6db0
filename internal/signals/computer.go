package signals

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tradepilot/internal/models"
)

// IndicatorEngine computes the indicator series and latest-bar snapshot
// for one ticker. It holds no state between calls and is safe for
// concurrent use.
type IndicatorEngine struct{}

// NewIndicatorEngine creates a new indicator engine
func NewIndicatorEngine() *IndicatorEngine {
	return &IndicatorEngine{}
}

// Compute validates the bars and runs every indicator in dependency order.
// Malformed input fails the whole computation; short history only nils the
// affected snapshot fields.
func (e *IndicatorEngine) Compute(ticker string, bars []models.Bar) (*IndicatorResult, error) {
	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", ticker, err)
	}

	s := computeSeries(bars)
	snapshot := buildSnapshot(strings.ToUpper(strings.TrimSpace(ticker)), s)
	return &IndicatorResult{Snapshot: snapshot, Series: s}, nil
}

// computeSeries assumes validated bars
func computeSeries(bars []models.Bar) *Series {
	s := newSeries(bars)
	computeEMAs(s)
	s.set(ColRSI14, rsi(s.col(ColClose), rsiPeriod))
	computeMACD(s)
	computeVolume(s)
	atrRaw := computeATR(s)
	computeBollinger(s)
	computeADX(s, atrRaw)
	computeOBV(s)
	computeStochRSI(s)
	s.divergence = detectDivergence(s.col(ColHigh), s.col(ColLow), s.col(ColRSI14))
	return s
}

func buildSnapshot(ticker string, s *Series) IndicatorSnapshot {
	cur := s.Len() - 1
	at := func(c Column) float64 { return s.col(c)[cur] }

	snap := IndicatorSnapshot{
		Ticker:    ticker,
		Timestamp: s.Timestamp(cur),
		Price:     round(at(ColClose), 2),
		Bars:      s.Len(),
		EMA9:      ptr(at(ColEMA9), 2),
		EMA20:     ptr(at(ColEMA20), 2),
		EMA50:     ptr(at(ColEMA50), 2),
		EMA200:    ptr(at(ColEMA200), 2),
		EMAStack:  classifyStack(at(ColEMA9), at(ColEMA20), at(ColEMA50), at(ColEMA200)),
		RSI14:     ptr(at(ColRSI14), 1),
		Volume:    at(ColVolume),
		RVOL:      ptr(at(ColRVOL), 2),
		OBVTrend:  classifyOBV(at(ColOBV), at(ColOBVEMA20)),
		VWAP:      ptr(at(ColVWAP), 2),

		PriceVsVWAP: classifyVWAP(at(ColClose), at(ColVWAP)),
		ATR14:       ptr(at(ColATR14), 2),
		ATRPercent:  ptr(at(ColATRPercent), 2),
		ADX14:       ptr(at(ColADX14), 1),
		ADXTrend:    classifyADX(at(ColADX14)),
		Patterns:    detectPatterns(s, s.divergence),
	}

	if label, ok := s.Divergence(cur); ok {
		snap.RSIDivergence = &label
	}

	if valid(at(ColMACDLine)) && valid(at(ColMACDSignal)) {
		snap.MACD = &MACDValues{
			Line:      round(at(ColMACDLine), 3),
			Signal:    round(at(ColMACDSignal), 3),
			Histogram: round(at(ColMACDHistogram), 3),
		}
	}

	if valid(at(ColStochRSIK)) && valid(at(ColStochRSID)) {
		snap.StochRSI = &StochRSIValues{
			K: round(at(ColStochRSIK), 1),
			D: round(at(ColStochRSID), 1),
		}
	}

	if valid(at(ColBBMiddle)) {
		snap.Bollinger = &BollingerValues{
			Upper:     round(at(ColBBUpper), 2),
			Middle:    round(at(ColBBMiddle), 2),
			Lower:     round(at(ColBBLower), 2),
			Bandwidth: round(at(ColBBBandwidth), 2),
			Squeeze:   at(ColBBSqueeze) == 1,
		}
	}

	return snap
}
