package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInstrumentMetrics_ShortHistory(t *testing.T) {
	m, err := ComputeInstrumentMetrics("GLD", barsFromCloses(geometric(metricsMinBars-1, 10, 0.01), 0.01))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestComputeInstrumentMetrics_PartialWindows(t *testing.T) {
	m, err := ComputeInstrumentMetrics("uso", barsFromCloses(zigzag(20, 70, 1, 0.5), 0.01))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "USO", m.Ticker)
	assert.Equal(t, "US Oil Fund", m.Name)
	assert.Equal(t, "commodities", m.Category)
	assert.Nil(t, m.Change1M)
	assert.Nil(t, m.Change3M)
	require.NotNil(t, m.AboveEMA20)
	assert.Nil(t, m.AboveEMA50)
	assert.Nil(t, m.AboveEMA200)
	assert.Equal(t, TrendMixed, m.Trend)
	assert.NotNil(t, m.RSI14)
	assert.Nil(t, m.Volatility20D)
}

func TestComputeInstrumentMetrics_Uptrend(t *testing.T) {
	m, err := ComputeInstrumentMetrics("XYZ", barsFromCloses(geometric(70, 100, 0.01), 0.01))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "unknown", m.Category)
	assert.Equal(t, 1.0, m.Change1D)
	assert.Equal(t, 4.06, m.Change1W)
	require.NotNil(t, m.Change1M)
	assert.Equal(t, 22.02, *m.Change1M)
	require.NotNil(t, m.Change3M)
	assert.Equal(t, TrendBullish, m.Trend)
	assert.True(t, *m.AboveEMA50)
	assert.Nil(t, m.AboveEMA200)

	// no losing day, so RS is undefined
	assert.Nil(t, m.RSI14)
	require.NotNil(t, m.Volatility20D)
	assert.InDelta(t, 0.0, *m.Volatility20D, 1e-9)
	assert.Equal(t, 0.0, m.PctFrom52WHigh)
	assert.Positive(t, m.PctFrom52WLow)
}

func TestComputeInstrumentMetrics_Downtrend(t *testing.T) {
	m, err := ComputeInstrumentMetrics("IWM", barsFromCloses(geometric(60, 200, -0.01), 0.01))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, TrendBearish, m.Trend)
	assert.Equal(t, "breadth", m.Category)
	assert.Equal(t, 0.0, m.PctFrom52WLow)
	assert.Negative(t, m.PctFrom52WHigh)
}

func TestSimpleRSI(t *testing.T) {
	closes := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	assert.InDelta(t, 50.0, simpleRSI(closes, 14), 1e-9)
	assert.True(t, math.IsNaN(simpleRSI(closes[:14], 14)))
}
