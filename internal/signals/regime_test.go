package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tradepilot/internal/models"
)

func TestClassifyIndex(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		spread float64
		want   models.RegimeType
	}{
		{"short history", geometric(regimeMinBars-1, 100, 0.01), 0.01, models.RegimeRangeBound},
		{"steady advance", geometric(250, 100, 0.003), 0.01, models.RegimeStrongUptrend},
		{"steady decline", geometric(250, 100, -0.003), 0.01, models.RegimeStrongDowntrend},
		{"wide ranges", geometric(250, 100, 0.003), 0.05, models.RegimeHighVolatility},
	}

	classifier := NewRegimeClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.ClassifyIndex(barsFromCloses(tt.closes, tt.spread))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_DefaultsWithoutVolatilityIndex(t *testing.T) {
	r, err := NewRegimeClassifier().Classify(RegimeInput{})
	require.NoError(t, err)

	assert.Equal(t, models.RegimeRangeBound, r.PrimaryRegime)
	assert.Equal(t, models.RegimeRangeBound, r.SecondaryRegime)
	assert.Equal(t, models.DirectionNeutral, r.MarketDirection)
	assert.Equal(t, 20.0, r.VIX)
	assert.Equal(t, 50.0, r.VIXPercentile)
	assert.Equal(t, TermContango, r.VIXTermStructure)
	assert.Equal(t, VolatilityElevated, r.VolatilityRegime)
	assert.Equal(t, models.DirectionNeutral, r.Bias)
	assert.Empty(t, r.PrimaryVsEMAs)
	assert.Empty(t, r.SectorLeaders)
	assert.True(t, r.Timestamp.IsZero())
	assert.NotEmpty(t, r.Summary)
}

func TestClassify_FullSession(t *testing.T) {
	primary := barsFromCloses(geometric(250, 400, 0.003), 0.01)
	vix := barsFromCloses([]float64{14, 13, 12, 12.5, 13, 12, 11, 10.5, 11, 12}, 0.02)
	sectors := []SectorSeries{
		{Sector: Sector{Name: "Technology", ETF: "XLK"}, Bars: barsFromCloses(geometric(30, 100, 0.01), 0.01)},
		{Sector: Sector{Name: "Energy", ETF: "XLE"}, Bars: barsFromCloses(geometric(30, 100, -0.01), 0.01)},
		{Sector: Sector{Name: "Utilities", ETF: "XLU"}, Bars: barsFromCloses(geometric(30, 100, 0.002), 0.01)},
		{Sector: Sector{Name: "Materials", ETF: "XLB"}, Bars: barsFromCloses(geometric(4, 100, 0.05), 0.01)},
	}

	r, err := NewRegimeClassifier().Classify(RegimeInput{Primary: primary, Volatility: vix, Sectors: sectors})
	require.NoError(t, err)

	assert.Equal(t, primary[len(primary)-1].Timestamp, r.Timestamp)
	assert.Equal(t, models.RegimeStrongUptrend, r.PrimaryRegime)
	assert.Equal(t, models.DirectionBullish, r.MarketDirection)
	for _, e := range emaSpans {
		assert.Equal(t, EMAAbove, r.PrimaryVsEMAs[e.col], string(e.col))
	}

	assert.Equal(t, 12.0, r.VIX)
	assert.Equal(t, VolatilityLow, r.VolatilityRegime)
	// 12 against 13 five bars earlier
	assert.Equal(t, TermContango, r.VIXTermStructure)
	assert.Equal(t, 30.0, r.VIXPercentile)
	assert.Equal(t, models.DirectionBullish, r.Bias)

	require.Len(t, r.SectorLeaders, 3)
	assert.Equal(t, []string{"XLK", "XLU", "XLE"}, etfs(r.SectorLeaders))
	assert.Equal(t, []string{"XLE", "XLU", "XLK"}, etfs(r.SectorLaggards))
	assert.Contains(t, r.Summary, "Leaders: XLK, XLU, XLE.")

	again, err := NewRegimeClassifier().Classify(RegimeInput{Primary: primary, Volatility: vix, Sectors: sectors})
	require.NoError(t, err)
	assert.Equal(t, r.Summary, again.Summary)
}

func TestClassify_RejectsMalformedSeries(t *testing.T) {
	bad := barsFromCloses([]float64{10, 11, 12}, 0.01)
	bad[1].Close = -1

	_, err := NewRegimeClassifier().Classify(RegimeInput{Secondary: bad})
	assert.ErrorIs(t, err, models.ErrMalformedInput)

	_, err = NewRegimeClassifier().Classify(RegimeInput{Volatility: bad})
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}

func TestVIXHelpers(t *testing.T) {
	assert.Equal(t, TermContango, vixTermStructure([]float64{10, 20, 30, 40, 50}))
	assert.Equal(t, TermContango, vixTermStructure([]float64{15, 1, 1, 1, 1, 15}))
	assert.Equal(t, TermBackwardation, vixTermStructure([]float64{15, 1, 1, 1, 1, 15.5}))
	assert.Equal(t, TermContango, vixTermStructure([]float64{15, 30, 30, 30, 30, 14}))

	long := make([]float64, 300)
	for i := range long {
		long[i] = float64(i + 1)
	}
	assert.InDelta(t, 251.0/252.0*100, vixPercentile(long), 1e-9)
	assert.Equal(t, 0.0, vixPercentile([]float64{5, 6, 7, 5}))

	assert.Equal(t, VolatilityLow, classifyVolatility(14.99))
	assert.Equal(t, VolatilityNormal, classifyVolatility(15))
	assert.Equal(t, VolatilityElevated, classifyVolatility(20))
	assert.Equal(t, VolatilityExtreme, classifyVolatility(30))
}

func TestOverallBias(t *testing.T) {
	tests := []struct {
		name    string
		primary models.RegimeType
		vix     float64
		term    TermStructure
		want    models.Direction
	}{
		{"calm uptrend", models.RegimeStrongUptrend, 15, TermContango, models.DirectionBullish},
		{"range with neutral volatility", models.RegimeRangeBound, 20, TermContango, models.DirectionNeutral},
		{"range with calm volatility", models.RegimeRangeBound, 17, TermContango, models.DirectionBullish},
		{"stressed downtrend", models.RegimeStrongDowntrend, 30, TermBackwardation, models.DirectionBearish},
		{"uptrend under stress", models.RegimeUptrend, 30, TermBackwardation, models.DirectionNeutral},
		{"downtrend in contango", models.RegimeDowntrend, 20, TermContango, models.DirectionNeutral},
		{"high volatility regime", models.RegimeHighVolatility, 26, TermBackwardation, models.DirectionBearish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallBias(tt.primary, tt.vix, tt.term))
		})
	}
}

func TestRotationComputer(t *testing.T) {
	primary := barsFromCloses([]float64{100, 100, 100, 100, 100, 102}, 0.01)
	flat := geometric(10, 50, 0)
	sectors := []SectorSeries{
		{Sector: Sector{Name: "A", ETF: "AAA"}, Bars: barsFromCloses(flat, 0.01)},
		{Sector: Sector{Name: "B", ETF: "BBB"}, Bars: barsFromCloses(flat, 0.01)},
		{Sector: Sector{Name: "C", ETF: "CCC"}, Bars: barsFromCloses([]float64{100, 101, 102, 103, 104, 110}, 0.01)},
		{Sector: Sector{Name: "D", ETF: "DDD"}, Bars: barsFromCloses([]float64{10, 11, 12, 13}, 0.01)},
	}

	result, err := NewRotationComputer().Compute(primary, sectors)
	require.NoError(t, err)

	require.Len(t, result.Sectors, 3)
	assert.Equal(t, []string{"CCC", "AAA", "BBB"}, etfs(result.Leaders))
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, etfs(result.Laggards))

	c := result.Sectors[2]
	assert.Equal(t, 8.91, c.Performance1W)
	assert.Equal(t, 10.0, c.Performance1M)
	require.NotNil(t, c.RelativeStrength)
	assert.Equal(t, 6.91, *c.RelativeStrength)

	noBenchmark, err := NewRotationComputer().Compute(primary[:4], sectors)
	require.NoError(t, err)
	for _, row := range noBenchmark.Sectors {
		assert.Nil(t, row.RelativeStrength)
	}
}

func etfs(rows []SectorRotation) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ETF)
	}
	return out
}
