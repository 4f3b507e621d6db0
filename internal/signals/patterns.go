package signals

import "github.com/ternarybob/tradepilot/internal/models"

const (
	patternMinBars       = 20
	rsiOverbought        = 70.0
	rsiOversold          = 30.0
	rvolBreakout         = 2.0
	rvolElevated         = 1.5
	strongTrendADX       = 25.0
	adxStrongThreshold   = 40.0
	adxModerateThreshold = 25.0
	adxWeakThreshold     = 15.0
)

// classifyStack orders the four EMAs; nil when any is missing
func classifyStack(e9, e20, e50, e200 float64) *StackLabel {
	if !valid(e9) || !valid(e20) || !valid(e50) || !valid(e200) {
		return nil
	}
	label := StackMixed
	switch {
	case e9 > e20 && e20 > e50 && e50 > e200:
		label = StackBullish
	case e9 < e20 && e20 < e50 && e50 < e200:
		label = StackBearish
	}
	return &label
}

// classifyADX buckets ADX into a trend strength label
func classifyADX(adx float64) *ADXTrend {
	if !valid(adx) {
		return nil
	}
	var label ADXTrend
	switch {
	case adx >= adxStrongThreshold:
		label = ADXStrong
	case adx >= adxModerateThreshold:
		label = ADXModerate
	case adx >= adxWeakThreshold:
		label = ADXWeak
	default:
		label = ADXNoTrend
	}
	return &label
}

// classifyVWAP places the close above, below or at VWAP (within 0.1%)
func classifyVWAP(close, vwap float64) *VWAPPosition {
	if !valid(vwap) || vwap <= 0 {
		return nil
	}
	var label VWAPPosition
	diffPct := (close - vwap) / vwap * 100
	if diffPct < 0 {
		diffPct = -diffPct
	}
	switch {
	case diffPct < vwapAtThreshold:
		label = VWAPAt
	case close > vwap:
		label = VWAPAbove
	default:
		label = VWAPBelow
	}
	return &label
}

// classifyOBV compares OBV to its 20-bar EMA
func classifyOBV(obv, obvEMA float64) *models.Direction {
	if !valid(obv) || !valid(obvEMA) {
		return nil
	}
	d := models.DirectionBearish
	if obv > obvEMA {
		d = models.DirectionBullish
	}
	return &d
}

// detectPatterns evaluates the latest bar against the previous one.
// Every cross requires a strict sign flip, so golden and death cross
// can never fire together.
func detectPatterns(s *Series, divergence []DivergenceLabel) []Pattern {
	patterns := []Pattern{}
	n := s.Len()
	if n < patternMinBars {
		return patterns
	}
	cur, prev := n-1, n-2
	at := func(c Column, i int) float64 { return s.col(c)[i] }

	if stack := classifyStack(at(ColEMA9, cur), at(ColEMA20, cur), at(ColEMA50, cur), at(ColEMA200, cur)); stack != nil {
		switch *stack {
		case StackBullish:
			patterns = append(patterns, PatternEMAStackBullish)
		case StackBearish:
			patterns = append(patterns, PatternEMAStackBearish)
		}
	}

	if crossedAbove(at(ColEMA50, prev), at(ColEMA200, prev), at(ColEMA50, cur), at(ColEMA200, cur)) {
		patterns = append(patterns, PatternGoldenCross)
	} else if crossedBelow(at(ColEMA50, prev), at(ColEMA200, prev), at(ColEMA50, cur), at(ColEMA200, cur)) {
		patterns = append(patterns, PatternDeathCross)
	}

	if crossedAbove(at(ColMACDLine, prev), at(ColMACDSignal, prev), at(ColMACDLine, cur), at(ColMACDSignal, cur)) {
		patterns = append(patterns, PatternMACDBullishCrossover)
	} else if crossedBelow(at(ColMACDLine, prev), at(ColMACDSignal, prev), at(ColMACDLine, cur), at(ColMACDSignal, cur)) {
		patterns = append(patterns, PatternMACDBearishCrossover)
	}

	if r := at(ColRSI14, cur); valid(r) {
		if r > rsiOverbought {
			patterns = append(patterns, PatternRSIOverbought)
		} else if r < rsiOversold {
			patterns = append(patterns, PatternRSIOversold)
		}
	}

	if at(ColBBSqueeze, cur) == 1 {
		patterns = append(patterns, PatternBollingerSqueeze)
	}

	if rv := at(ColRVOL, cur); valid(rv) {
		if rv >= rvolBreakout {
			patterns = append(patterns, PatternVolumeBreakout)
		} else if rv >= rvolElevated {
			patterns = append(patterns, PatternElevatedVolume)
		}
	}

	if crossedAbove(at(ColClose, prev), at(ColVWAP, prev), at(ColClose, cur), at(ColVWAP, cur)) {
		patterns = append(patterns, PatternVWAPReclaim)
	} else if crossedBelow(at(ColClose, prev), at(ColVWAP, prev), at(ColClose, cur), at(ColVWAP, cur)) {
		patterns = append(patterns, PatternVWAPRejection)
	}

	if adx := at(ColADX14, cur); valid(adx) && adx > strongTrendADX {
		e9, e20 := at(ColEMA9, cur), at(ColEMA20, cur)
		if valid(e9) && valid(e20) {
			if e9 > e20 {
				patterns = append(patterns, PatternStrongUptrend)
			} else if e9 < e20 {
				patterns = append(patterns, PatternStrongDowntrend)
			}
		}
	}

	switch divergence[cur] {
	case DivergenceBullish:
		patterns = append(patterns, PatternBullishDivergence)
	case DivergenceBearish:
		patterns = append(patterns, PatternBearishDivergence)
	}

	return patterns
}
