package signals

// RSI divergence windows. For bar i the lookback window is bars i-14..i;
// the recent slice is its last 5 bars (i-4..i) and the prior slice is its
// first 10 bars (i-14..i-5).
const (
	divergenceLookback = 14
	divergenceRecent   = 5
	divergencePrior    = divergenceLookback - 4
	divergenceMinBars  = divergenceLookback + divergenceRecent
)

// detectDivergence labels every bar. Bars before the first complete window
// are "none". Bullish divergence is a lower recent low with a higher recent
// RSI low; bearish is a higher recent high with a lower recent RSI high.
// When both hold on the same bar the bearish label wins.
func detectDivergence(high, low, rsi []float64) []DivergenceLabel {
	n := len(low)
	out := make([]DivergenceLabel, n)
	for i := range out {
		out[i] = DivergenceNone
	}
	if n < divergenceMinBars {
		return out
	}

	lowRecent := rollingMin(low, divergenceRecent)
	lowPrior := rollingMin(low, divergencePrior)
	highRecent := rollingMax(high, divergenceRecent)
	highPrior := rollingMax(high, divergencePrior)
	rsiLowRecent := rollingMin(rsi, divergenceRecent)
	rsiLowPrior := rollingMin(rsi, divergencePrior)
	rsiHighRecent := rollingMax(rsi, divergenceRecent)
	rsiHighPrior := rollingMax(rsi, divergencePrior)

	for i := divergenceMinBars - 1; i < n; i++ {
		// prior slice ends five bars before i
		p := i - divergenceRecent

		// RSI must exist at both ends of the lookback window
		if !valid(rsi[i]) || !valid(rsi[i-divergenceLookback]) {
			continue
		}

		if valid(rsiLowRecent[i]) && valid(rsiLowPrior[p]) &&
			lowRecent[i] < lowPrior[p] && rsiLowRecent[i] > rsiLowPrior[p] {
			out[i] = DivergenceBullish
		}
		if valid(rsiHighRecent[i]) && valid(rsiHighPrior[p]) &&
			highRecent[i] > highPrior[p] && rsiHighRecent[i] < rsiHighPrior[p] {
			out[i] = DivergenceBearish
		}
	}
	return out
}
