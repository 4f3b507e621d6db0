package signals

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Regime classification thresholds
const (
	regimeMinBars        = 50
	regimeSlopeBars      = 6 // slope measured from the EMA20 five bars back
	highVolatilityATRPct = 4.0
	strongSlopePct       = 0.5
	defaultVIX           = 20.0
	defaultVIXPercentile = 50.0
	vixPercentileWindow  = 252
	vixTermLookback      = 5
	vixBullishBelow      = 18.0
	vixBearishAbove      = 25.0
)

// EMARelation is the latest close relative to an EMA
type EMARelation string

const (
	EMAAbove EMARelation = "above"
	EMABelow EMARelation = "below"
)

// TermStructure approximates the volatility futures curve from the index trend
type TermStructure string

const (
	TermContango      TermStructure = "contango"
	TermBackwardation TermStructure = "backwardation"
)

// VolatilityRegime buckets the volatility index level
type VolatilityRegime string

const (
	VolatilityLow      VolatilityRegime = "low"
	VolatilityNormal   VolatilityRegime = "normal"
	VolatilityElevated VolatilityRegime = "elevated"
	VolatilityExtreme  VolatilityRegime = "extreme"
)

// RegimeInput carries the benchmark series for one session. Any series may be
// empty; non-empty series must be well formed.
type RegimeInput struct {
	Primary    []models.Bar
	Secondary  []models.Bar
	Volatility []models.Bar
	Sectors    []SectorSeries // ranked in slice order on ties
}

// MarketRegime is the session-wide market assessment
type MarketRegime struct {
	Timestamp        time.Time              `json:"timestamp" yaml:"timestamp"`
	PrimaryRegime    models.RegimeType      `json:"primary_regime" yaml:"primary_regime"`
	SecondaryRegime  models.RegimeType      `json:"secondary_regime" yaml:"secondary_regime"`
	PrimaryVsEMAs    map[Column]EMARelation `json:"primary_vs_emas" yaml:"primary_vs_emas"`
	MarketDirection  models.Direction       `json:"market_direction" yaml:"market_direction"`
	VIX              float64                `json:"vix" yaml:"vix"`
	VIXPercentile    float64                `json:"vix_percentile" yaml:"vix_percentile"`
	VIXTermStructure TermStructure          `json:"vix_term_structure" yaml:"vix_term_structure"`
	VolatilityRegime VolatilityRegime       `json:"volatility_regime" yaml:"volatility_regime"`
	SectorLeaders    []SectorRotation       `json:"sector_leaders" yaml:"sector_leaders"`
	SectorLaggards   []SectorRotation       `json:"sector_laggards" yaml:"sector_laggards"`
	Bias             models.Direction       `json:"bias" yaml:"bias"`
	Summary          string                 `json:"summary" yaml:"summary"`
}

// RegimeClassifier classifies benchmark indices and the volatility environment
type RegimeClassifier struct{}

// NewRegimeClassifier creates a new regime classifier
func NewRegimeClassifier() *RegimeClassifier {
	return &RegimeClassifier{}
}

// Classify builds the MarketRegime for a session
func (c *RegimeClassifier) Classify(in RegimeInput) (*MarketRegime, error) {
	primary, err := c.indexSeries("primary", in.Primary)
	if err != nil {
		return nil, err
	}
	secondary, err := c.indexSeries("secondary", in.Secondary)
	if err != nil {
		return nil, err
	}
	if len(in.Volatility) > 0 {
		if err := models.ValidateBars(in.Volatility); err != nil {
			return nil, fmt.Errorf("volatility index: %w", err)
		}
	}

	r := &MarketRegime{
		PrimaryRegime:   classifyIndexSeries(primary),
		SecondaryRegime: classifyIndexSeries(secondary),
		PrimaryVsEMAs:   emaRelations(primary),
	}
	if primary != nil {
		r.Timestamp = primary.Timestamp(primary.Len() - 1)
	}

	switch {
	case r.PrimaryRegime.IsBullish():
		r.MarketDirection = models.DirectionBullish
	case r.PrimaryRegime.IsBearish():
		r.MarketDirection = models.DirectionBearish
	default:
		r.MarketDirection = models.DirectionNeutral
	}

	closes := models.Closes(in.Volatility)
	r.VIX = round(vixLevel(closes), 2)
	r.VIXPercentile = round(vixPercentile(closes), 1)
	r.VIXTermStructure = vixTermStructure(closes)
	r.VolatilityRegime = classifyVolatility(vixLevel(closes))

	rotation, err := NewRotationComputer().Compute(in.Primary, in.Sectors)
	if err != nil {
		return nil, err
	}
	r.SectorLeaders = rotation.Leaders
	r.SectorLaggards = rotation.Laggards

	r.Bias = overallBias(r.PrimaryRegime, vixLevel(closes), r.VIXTermStructure)
	r.Summary = summarize(r)
	return r, nil
}

// ClassifyIndex labels a single index series
func (c *RegimeClassifier) ClassifyIndex(bars []models.Bar) (models.RegimeType, error) {
	s, err := c.indexSeries("index", bars)
	if err != nil {
		return "", err
	}
	return classifyIndexSeries(s), nil
}

// indexSeries computes the EMAs and ATR needed for classification; nil for an empty series
func (c *RegimeClassifier) indexSeries(name string, bars []models.Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, nil
	}
	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("%s index: %w", name, err)
	}
	s := newSeries(bars)
	computeEMAs(s)
	s.set(ColRSI14, rsi(s.col(ColClose), rsiPeriod))
	computeATR(s)
	return s, nil
}

// classifyIndexSeries applies the regime rules to the latest bar.
// A missing EMA counts as not above.
func classifyIndexSeries(s *Series) models.RegimeType {
	if s == nil || s.Len() < regimeMinBars {
		return models.RegimeRangeBound
	}
	cur := s.Len() - 1
	price := s.col(ColClose)[cur]

	above := 0
	for _, e := range emaSpans {
		if v, ok := s.Value(e.col, cur); ok && price > v {
			above++
		}
	}

	slope := 0.0
	ema20 := s.col(ColEMA20)
	then := ema20[cur-(regimeSlopeBars-1)]
	if valid(ema20[cur]) && valid(then) && then > 0 {
		slope = (ema20[cur] - then) / then * 100
	}

	atrPct := 0.0
	if atr, ok := s.Value(ColATR14, cur); ok && price > 0 {
		atrPct = atr / price * 100
	}

	if atrPct > highVolatilityATRPct {
		return models.RegimeHighVolatility
	}
	switch {
	case above == 4 && slope > strongSlopePct:
		return models.RegimeStrongUptrend
	case above >= 3 && slope > 0:
		return models.RegimeUptrend
	case above <= 1 && slope < -strongSlopePct:
		return models.RegimeStrongDowntrend
	case above <= 1 && slope < 0:
		return models.RegimeDowntrend
	default:
		return models.RegimeRangeBound
	}
}

func emaRelations(s *Series) map[Column]EMARelation {
	out := make(map[Column]EMARelation)
	if s == nil {
		return out
	}
	cur := s.Len() - 1
	price := s.col(ColClose)[cur]
	for _, e := range emaSpans {
		v, ok := s.Value(e.col, cur)
		if !ok {
			continue
		}
		if price > v {
			out[e.col] = EMAAbove
		} else {
			out[e.col] = EMABelow
		}
	}
	return out
}

func vixLevel(closes []float64) float64 {
	if len(closes) == 0 {
		return defaultVIX
	}
	return last(closes)
}

// vixPercentile is the share of the trailing 252 closes strictly below the
// current level; the current close is part of the window
func vixPercentile(closes []float64) float64 {
	if len(closes) == 0 {
		return defaultVIXPercentile
	}
	window := closes
	if len(window) > vixPercentileWindow {
		window = window[len(window)-vixPercentileWindow:]
	}
	current := last(closes)
	lower := 0
	for _, v := range window {
		if v < current {
			lower++
		}
	}
	return float64(lower) / float64(len(window)) * 100
}

// vixTermStructure is backwardation when the level is above its value five bars earlier
func vixTermStructure(closes []float64) TermStructure {
	n := len(closes)
	if n < vixTermLookback+1 {
		return TermContango
	}
	if closes[n-1] > closes[n-1-vixTermLookback] {
		return TermBackwardation
	}
	return TermContango
}

func classifyVolatility(vix float64) VolatilityRegime {
	switch {
	case vix < 15:
		return VolatilityLow
	case vix < 20:
		return VolatilityNormal
	case vix < 30:
		return VolatilityElevated
	default:
		return VolatilityExtreme
	}
}

// overallBias scores regime, volatility level and term structure.
// A side needs more than a one point lead.
func overallBias(primary models.RegimeType, vix float64, term TermStructure) models.Direction {
	bullish, bearish := 0, 0
	if primary.IsBullish() {
		bullish += 2
	} else if primary.IsBearish() {
		bearish += 2
	}
	if vix < vixBullishBelow {
		bullish++
	} else if vix > vixBearishAbove {
		bearish++
	}
	if term == TermContango {
		bullish++
	} else {
		bearish++
	}

	switch {
	case bullish > bearish+1:
		return models.DirectionBullish
	case bearish > bullish+1:
		return models.DirectionBearish
	default:
		return models.DirectionNeutral
	}
}

func summarize(r *MarketRegime) string {
	leaders := make([]string, 0, len(r.SectorLeaders))
	for _, s := range r.SectorLeaders {
		leaders = append(leaders, s.ETF)
	}
	laggards := make([]string, 0, len(r.SectorLaggards))
	for _, s := range r.SectorLaggards {
		laggards = append(laggards, s.ETF)
	}
	summary := fmt.Sprintf("Market %s (primary %s, secondary %s). VIX %.2f, %s, %s, %.1f percentile. Bias %s.",
		r.MarketDirection, r.PrimaryRegime, r.SecondaryRegime,
		r.VIX, r.VolatilityRegime, r.VIXTermStructure, r.VIXPercentile, r.Bias)
	if len(leaders) > 0 {
		summary += fmt.Sprintf(" Leaders: %s. Laggards: %s.", strings.Join(leaders, ", "), strings.Join(laggards, ", "))
	}
	return summary
}
