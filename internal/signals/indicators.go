package signals

import "math"

// Indicator windows
const (
	rsiPeriod        = 14
	atrPeriod        = 14
	adxPeriod        = 14
	stochPeriod      = 14
	stochSmoothK     = 3
	stochSmoothD     = 3
	macdFast         = 12
	macdSlow         = 26
	macdSignal       = 9
	volumeWindow     = 20
	bollingerWindow  = 20
	bollingerWidth   = 2.0
	obvSignalSpan    = 20
	vwapAtThreshold  = 0.1 // percent
	macdMinBars      = macdSlow + macdSignal - 1
	bandwidthMinBars = 2*bollingerWindow - 1
)

// EMA spans reported in the snapshot
var emaSpans = []struct {
	col  Column
	span int
}{
	{ColEMA9, 9},
	{ColEMA20, 20},
	{ColEMA50, 50},
	{ColEMA200, 200},
}

// computeEMAs reports EMA(span) once span bars exist
func computeEMAs(s *Series) {
	closes := s.col(ColClose)
	for _, e := range emaSpans {
		s.set(e.col, requireBars(ema(closes, e.span), e.span))
	}
}

// rsi is Wilder's RSI: avg gain / avg loss smoothed with alpha = 1/period.
// The first bar contributes a zero change, so a value exists from bar
// `period` onwards. RS is undefined when the average loss is zero.
func rsi(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else if d < 0 {
			losses[i] = -d
		}
	}
	alpha := 1 / float64(period)
	avgGain := ewm(gains, alpha)
	avgLoss := ewm(losses, alpha)

	out := nanSeries(n)
	for i := period - 1; i < n; i++ {
		if avgLoss[i] == 0 {
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// computeMACD reports the MACD triple once the slow EMA and the signal EMA are both seeded
func computeMACD(s *Series) {
	closes := s.col(ColClose)
	fast := ema(closes, macdFast)
	slow := ema(closes, macdSlow)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := ema(line, macdSignal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}
	s.set(ColMACDLine, requireBars(line, macdMinBars))
	s.set(ColMACDSignal, requireBars(signal, macdMinBars))
	s.set(ColMACDHistogram, requireBars(hist, macdMinBars))
}

// computeVolume derives rolling VWAP, the 20-bar volume average and relative volume
func computeVolume(s *Series) {
	high, low, closes, volume := s.col(ColHigh), s.col(ColLow), s.col(ColClose), s.col(ColVolume)
	n := len(closes)

	typical := make([]float64, n)
	tpv := make([]float64, n)
	for i := 0; i < n; i++ {
		typical[i] = (high[i] + low[i] + closes[i]) / 3
		tpv[i] = typical[i] * volume[i]
	}
	sumTPV := rollingSum(tpv, volumeWindow)
	sumVol := rollingSum(volume, volumeWindow)

	vwap := nanSeries(n)
	sma := nanSeries(n)
	rvol := nanSeries(n)
	for i := volumeWindow - 1; i < n; i++ {
		if sumVol[i] > 0 {
			vwap[i] = sumTPV[i] / sumVol[i]
		} else {
			vwap[i] = typical[i]
		}
		sma[i] = sumVol[i] / volumeWindow
		if sma[i] > 0 {
			rvol[i] = volume[i] / sma[i]
		} else {
			rvol[i] = 1.0
		}
	}
	s.set(ColVWAP, vwap)
	s.set(ColVolumeSMA20, sma)
	s.set(ColRVOL, rvol)
}

// trueRange uses high-low on the first bar where no previous close exists
func trueRange(high, low, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		hl := high[i] - low[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(high[i] - closes[i-1])
		lc := math.Abs(low[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// computeATR reports ATR(14) as an EMA of true range and ATR as a percent of close
func computeATR(s *Series) []float64 {
	high, low, closes := s.col(ColHigh), s.col(ColLow), s.col(ColClose)
	raw := ema(trueRange(high, low, closes), atrPeriod)

	atr := make([]float64, len(raw))
	copy(atr, raw)
	requireBars(atr, atrPeriod)

	pct := nanSeries(len(raw))
	for i, v := range atr {
		if valid(v) && closes[i] > 0 {
			pct[i] = v / closes[i] * 100
		}
	}
	s.set(ColATR14, atr)
	s.set(ColATRPercent, pct)
	return raw
}

// computeBollinger reports SMA20 ± 2 sample standard deviations. The squeeze
// flag needs 20 bandwidth values, so it is absent until bar 39.
func computeBollinger(s *Series) {
	closes := s.col(ColClose)
	n := len(closes)
	middle := rollingMean(closes, bollingerWindow)
	std := rollingStd(closes, bollingerWindow)

	upper := nanSeries(n)
	lower := nanSeries(n)
	bandwidth := nanSeries(n)
	for i := 0; i < n; i++ {
		if !valid(middle[i]) || !valid(std[i]) {
			continue
		}
		upper[i] = middle[i] + bollingerWidth*std[i]
		lower[i] = middle[i] - bollingerWidth*std[i]
		if middle[i] > 0 {
			bandwidth[i] = (upper[i] - lower[i]) / middle[i] * 100
		} else {
			bandwidth[i] = 0
		}
	}

	minBandwidth := rollingMin(bandwidth, bollingerWindow)
	squeeze := nanSeries(n)
	for i := 0; i < n; i++ {
		if !valid(minBandwidth[i]) {
			continue
		}
		if bandwidth[i] <= minBandwidth[i] {
			squeeze[i] = 1
		} else {
			squeeze[i] = 0
		}
	}

	s.set(ColBBUpper, upper)
	s.set(ColBBMiddle, middle)
	s.set(ColBBLower, lower)
	s.set(ColBBBandwidth, bandwidth)
	s.set(ColBBSqueeze, squeeze)
}

// computeADX builds +DI/-DI from directional movement smoothed against ATR.
// A zero ATR yields zero DI; a zero DI sum yields zero DX.
func computeADX(s *Series, atrRaw []float64) {
	high, low := s.col(ColHigh), s.col(ColLow)
	n := len(high)

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		// compared against the filtered +DM, so an equal outside bar counts as -DM
		if down > plusDM[i] && down > 0 {
			minusDM[i] = down
		}
	}
	plusSmooth := ema(plusDM, adxPeriod)
	minusSmooth := ema(minusDM, adxPeriod)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if atrRaw[i] > 0 {
			plusDI[i] = 100 * plusSmooth[i] / atrRaw[i]
			minusDI[i] = 100 * minusSmooth[i] / atrRaw[i]
		}
		sum := plusDI[i] + minusDI[i]
		if sum > 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}
	adx := ema(dx, adxPeriod)

	s.set(ColPlusDI, requireBars(plusDI, adxPeriod))
	s.set(ColMinusDI, requireBars(minusDI, adxPeriod))
	s.set(ColADX14, requireBars(adx, adxPeriod))
}

// computeOBV accumulates volume on up closes and subtracts it on down closes
func computeOBV(s *Series) {
	closes, volume := s.col(ColClose), s.col(ColVolume)
	n := len(closes)
	obv := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volume[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volume[i]
		default:
			obv[i] = obv[i-1]
		}
	}
	s.set(ColOBV, obv)
	s.set(ColOBVEMA20, requireBars(ema(obv, obvSignalSpan), obvSignalSpan))
}

// computeStochRSI normalises RSI within its 14-bar range, 50 when the range
// collapses, then smooths into %K and %D
func computeStochRSI(s *Series) {
	r := s.col(ColRSI14)
	n := len(r)
	lo := rollingMin(r, stochPeriod)
	hi := rollingMax(r, stochPeriod)

	raw := nanSeries(n)
	for i := 0; i < n; i++ {
		if !valid(lo[i]) || !valid(hi[i]) || !valid(r[i]) {
			continue
		}
		if rng := hi[i] - lo[i]; rng > 0 {
			raw[i] = (r[i] - lo[i]) / rng * 100
		} else {
			raw[i] = 50
		}
	}
	k := rollingMean(raw, stochSmoothK)
	d := rollingMean(k, stochSmoothD)
	s.set(ColStochRSIK, k)
	s.set(ColStochRSID, d)
}
