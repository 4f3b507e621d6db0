// Package signals computes technical indicators, market regime and
// intermarket signals from OHLCV bar series.
package signals

import (
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Signal descriptions - static explanations of what each output measures
const (
	DescriptionSnapshot   = "Latest-bar technical state: EMAs, momentum, volume, volatility and trend strength. Fields are null when history is too short."
	DescriptionRegime     = "Trend and volatility state of the benchmark indices, volatility index and sector rotation for the session."
	DescriptionCrossAsset = "Intermarket confirmations and divergences across treasuries, credit, gold, oil, the dollar and breadth proxies."
)

// StackLabel is the ordering of EMA9/20/50/200 on the latest bar
type StackLabel string

const (
	StackBullish StackLabel = "bullish"
	StackBearish StackLabel = "bearish"
	StackMixed   StackLabel = "mixed"
)

// VWAPPosition is the latest close relative to VWAP
type VWAPPosition string

const (
	VWAPAbove VWAPPosition = "above"
	VWAPBelow VWAPPosition = "below"
	VWAPAt    VWAPPosition = "at"
)

// ADXTrend buckets ADX into trend strength
type ADXTrend string

const (
	ADXStrong   ADXTrend = "strong"
	ADXModerate ADXTrend = "moderate"
	ADXWeak     ADXTrend = "weak"
	ADXNoTrend  ADXTrend = "no_trend"
)

// DivergenceLabel is the RSI divergence state of a bar
type DivergenceLabel string

const (
	DivergenceNone    DivergenceLabel = "none"
	DivergenceBullish DivergenceLabel = "bullish_divergence"
	DivergenceBearish DivergenceLabel = "bearish_divergence"
)

// Pattern is a chart pattern tag detected on the latest bar transition
type Pattern string

const (
	PatternEMAStackBullish      Pattern = "ema_stack_bullish"
	PatternEMAStackBearish      Pattern = "ema_stack_bearish"
	PatternGoldenCross          Pattern = "golden_cross"
	PatternDeathCross           Pattern = "death_cross"
	PatternMACDBullishCrossover Pattern = "macd_bullish_crossover"
	PatternMACDBearishCrossover Pattern = "macd_bearish_crossover"
	PatternRSIOverbought        Pattern = "rsi_overbought"
	PatternRSIOversold          Pattern = "rsi_oversold"
	PatternBollingerSqueeze     Pattern = "bollinger_squeeze"
	PatternVolumeBreakout       Pattern = "volume_breakout"
	PatternElevatedVolume       Pattern = "elevated_volume"
	PatternVWAPReclaim          Pattern = "vwap_reclaim"
	PatternVWAPRejection        Pattern = "vwap_rejection"
	PatternStrongUptrend        Pattern = "strong_uptrend"
	PatternStrongDowntrend      Pattern = "strong_downtrend"
	PatternBullishDivergence    Pattern = "bullish_divergence"
	PatternBearishDivergence    Pattern = "bearish_divergence"
)

// MACDValues is the MACD triple on one bar
type MACDValues struct {
	Line      float64 `json:"line" yaml:"line"`
	Signal    float64 `json:"signal" yaml:"signal"`
	Histogram float64 `json:"histogram" yaml:"histogram"`
}

// StochRSIValues is the smoothed stochastic RSI pair
type StochRSIValues struct {
	K float64 `json:"k" yaml:"k"`
	D float64 `json:"d" yaml:"d"`
}

// BollingerValues holds the 20/2 Bollinger bands
type BollingerValues struct {
	Upper     float64 `json:"upper" yaml:"upper"`
	Middle    float64 `json:"middle" yaml:"middle"`
	Lower     float64 `json:"lower" yaml:"lower"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`
	Squeeze   bool    `json:"squeeze" yaml:"squeeze"`
}

// IndicatorSnapshot is the technical state of the latest bar.
// Pointer fields are nil when the series is shorter than the indicator's window.
type IndicatorSnapshot struct {
	Ticker    string    `json:"ticker" yaml:"ticker"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Price     float64   `json:"price" yaml:"price"`
	Bars      int       `json:"bars" yaml:"bars"`

	EMA9     *float64    `json:"ema_9" yaml:"ema_9"`
	EMA20    *float64    `json:"ema_20" yaml:"ema_20"`
	EMA50    *float64    `json:"ema_50" yaml:"ema_50"`
	EMA200   *float64    `json:"ema_200" yaml:"ema_200"`
	EMAStack *StackLabel `json:"ema_stack" yaml:"ema_stack"`

	RSI14         *float64         `json:"rsi_14" yaml:"rsi_14"`
	RSIDivergence *DivergenceLabel `json:"rsi_divergence" yaml:"rsi_divergence"`
	MACD          *MACDValues      `json:"macd" yaml:"macd"`
	StochRSI      *StochRSIValues  `json:"stoch_rsi" yaml:"stoch_rsi"`

	Volume      float64           `json:"volume" yaml:"volume"`
	RVOL        *float64          `json:"rvol" yaml:"rvol"`
	OBVTrend    *models.Direction `json:"obv_trend" yaml:"obv_trend"`
	VWAP        *float64          `json:"vwap" yaml:"vwap"`
	PriceVsVWAP *VWAPPosition     `json:"price_vs_vwap" yaml:"price_vs_vwap"`

	ATR14      *float64         `json:"atr_14" yaml:"atr_14"`
	ATRPercent *float64         `json:"atr_percent" yaml:"atr_percent"`
	Bollinger  *BollingerValues `json:"bollinger" yaml:"bollinger"`

	ADX14    *float64  `json:"adx_14" yaml:"adx_14"`
	ADXTrend *ADXTrend `json:"adx_trend" yaml:"adx_trend"`

	// Supplied by the caller; the engine never computes implied volatility
	IVRank         *float64 `json:"iv_rank,omitempty" yaml:"iv_rank,omitempty"`
	IVPercentile   *float64 `json:"iv_percentile,omitempty" yaml:"iv_percentile,omitempty"`
	PutCallOIRatio *float64 `json:"put_call_oi_ratio,omitempty" yaml:"put_call_oi_ratio,omitempty"`

	Patterns []Pattern `json:"patterns" yaml:"patterns"`
}

// HasPattern reports whether the snapshot carries the given tag
func (s *IndicatorSnapshot) HasPattern(p Pattern) bool {
	for _, tag := range s.Patterns {
		if tag == p {
			return true
		}
	}
	return false
}

// IndicatorResult is the output of one engine invocation
type IndicatorResult struct {
	Snapshot IndicatorSnapshot `json:"snapshot"`
	Series   *Series           `json:"-"`
}
