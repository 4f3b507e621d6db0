package signals

import (
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Column names an annotated indicator series
type Column string

const (
	ColOpen          Column = "open"
	ColHigh          Column = "high"
	ColLow           Column = "low"
	ColClose         Column = "close"
	ColVolume        Column = "volume"
	ColEMA9          Column = "ema_9"
	ColEMA20         Column = "ema_20"
	ColEMA50         Column = "ema_50"
	ColEMA200        Column = "ema_200"
	ColRSI14         Column = "rsi_14"
	ColMACDLine      Column = "macd_line"
	ColMACDSignal    Column = "macd_signal"
	ColMACDHistogram Column = "macd_histogram"
	ColVWAP          Column = "vwap"
	ColVolumeSMA20   Column = "vol_sma_20"
	ColRVOL          Column = "rvol"
	ColATR14         Column = "atr_14"
	ColATRPercent    Column = "atr_percent"
	ColBBUpper       Column = "bb_upper"
	ColBBMiddle      Column = "bb_middle"
	ColBBLower       Column = "bb_lower"
	ColBBBandwidth   Column = "bb_bandwidth"
	ColBBSqueeze     Column = "bb_squeeze"
	ColADX14         Column = "adx_14"
	ColPlusDI        Column = "plus_di"
	ColMinusDI       Column = "minus_di"
	ColOBV           Column = "obv"
	ColOBVEMA20      Column = "obv_ema_20"
	ColStochRSIK     Column = "stoch_rsi_k"
	ColStochRSID     Column = "stoch_rsi_d"
)

// Columns lists every computed column in dependency order
func Columns() []Column {
	return []Column{
		ColOpen, ColHigh, ColLow, ColClose, ColVolume,
		ColEMA9, ColEMA20, ColEMA50, ColEMA200,
		ColRSI14, ColMACDLine, ColMACDSignal, ColMACDHistogram,
		ColVWAP, ColVolumeSMA20, ColRVOL, ColATR14, ColATRPercent,
		ColBBUpper, ColBBMiddle, ColBBLower, ColBBBandwidth, ColBBSqueeze,
		ColADX14, ColPlusDI, ColMinusDI, ColOBV, ColOBVEMA20,
		ColStochRSIK, ColStochRSID,
	}
}

// Series is the full annotated indicator series for one engine call.
// It is owned by the caller that received it; values are read through
// accessors so missing entries are never mistaken for zero.
type Series struct {
	timestamps []time.Time
	columns    map[Column][]float64
	divergence []DivergenceLabel
}

func newSeries(bars []models.Bar) *Series {
	n := len(bars)
	s := &Series{
		timestamps: make([]time.Time, n),
		columns:    make(map[Column][]float64, len(Columns())),
	}
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range bars {
		s.timestamps[i] = b.Timestamp
		open[i] = b.Open
		high[i] = b.High
		low[i] = b.Low
		closes[i] = b.Close
		volume[i] = b.Volume
	}
	s.columns[ColOpen] = open
	s.columns[ColHigh] = high
	s.columns[ColLow] = low
	s.columns[ColClose] = closes
	s.columns[ColVolume] = volume
	return s
}

// Len returns the number of bars
func (s *Series) Len() int {
	return len(s.timestamps)
}

// Timestamp returns the timestamp of bar i
func (s *Series) Timestamp(i int) time.Time {
	return s.timestamps[i]
}

// Value returns column c at bar i and whether it is present
func (s *Series) Value(c Column, i int) (float64, bool) {
	col, ok := s.columns[c]
	if !ok || i < 0 || i >= len(col) {
		return 0, false
	}
	v := col[i]
	if !valid(v) {
		return 0, false
	}
	return v, true
}

// Latest returns column c on the final bar
func (s *Series) Latest(c Column) (float64, bool) {
	return s.Value(c, s.Len()-1)
}

// Divergence returns the RSI divergence label of bar i. The label is absent
// until enough bars exist for the first divergence window.
func (s *Series) Divergence(i int) (DivergenceLabel, bool) {
	if i < 0 || i >= len(s.divergence) || s.Len() < divergenceMinBars {
		return "", false
	}
	return s.divergence[i], true
}

// Column returns a copy of column c with missing entries as NaN
func (s *Series) Column(c Column) []float64 {
	col := s.columns[c]
	out := make([]float64, len(col))
	copy(out, col)
	return out
}

func (s *Series) col(c Column) []float64 {
	return s.columns[c]
}

func (s *Series) set(c Column, values []float64) {
	s.columns[c] = values
}
