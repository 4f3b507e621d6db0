package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tradepilot/internal/common"
	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// trendBars rises by step per bar with a pullback every fifth bar
func trendBars(n int, start, step float64) []models.Bar {
	bars := make([]models.Bar, n)
	c := start
	for i := range bars {
		prev := c
		if i%5 == 3 {
			c -= step * 0.4
		} else {
			c += step
		}
		bars[i] = models.Bar{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      prev,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1_000_000,
		}
	}
	return bars
}

func newTestService() *Service {
	return NewService(common.NewDefaultConfig(), arbor.NewLogger())
}

func uptrendSession(t *testing.T, svc *Service, catalystCtx *models.CatalystContext) *Session {
	t.Helper()
	vix := trendBars(30, 20, -0.2)
	session, err := svc.BuildSession(context.Background(), SessionInput{
		Primary:    trendBars(260, 400, 1),
		Secondary:  trendBars(260, 350, 1),
		Volatility: vix,
		Sectors: []signals.SectorSeries{
			{Sector: signals.Sector{Name: "Technology", ETF: "XLK"}, Bars: trendBars(30, 180, 1)},
			{Sector: signals.Sector{Name: "Utilities", ETF: "XLU"}, Bars: trendBars(30, 70, -0.2)},
		},
		Catalysts: catalystCtx,
	})
	require.NoError(t, err)
	return session
}

func TestBuildSession(t *testing.T) {
	svc := newTestService()
	session, err := svc.BuildSession(context.Background(), SessionInput{
		Primary:    trendBars(260, 400, 1),
		Volatility: trendBars(30, 20, -0.2),
		CrossAsset: map[string][]models.Bar{
			"TLT": trendBars(30, 90, 0.5),
			"SHY": trendBars(30, 80, 0.01),
		},
		Catalysts: &models.CatalystContext{
			Earnings: []models.EarningsEvent{{Ticker: "nvda", Date: testStart}},
		},
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(session.ID, "ses_"))
	_, err = uuid.Parse(strings.TrimPrefix(session.ID, "ses_"))
	assert.NoError(t, err)
	assert.False(t, session.CreatedAt.IsZero())

	require.NotNil(t, session.Regime)
	assert.True(t, session.Regime.PrimaryRegime.IsBullish())
	assert.Equal(t, models.RegimeRangeBound, session.Regime.SecondaryRegime)

	require.NotNil(t, session.CrossAsset)
	assert.Contains(t, session.CrossAsset.Instruments, "TLT")

	require.NotNil(t, session.Catalysts)
	assert.True(t, session.Catalysts.Earnings[0].IsBellwether)
	assert.Equal(t, models.EventRiskModerate, session.Catalysts.OverallEventRisk)
}

func TestBuildSession_Errors(t *testing.T) {
	svc := newTestService()

	bad := trendBars(10, 100, 1)
	bad[3].Timestamp = bad[2].Timestamp
	_, err := svc.BuildSession(context.Background(), SessionInput{Primary: bad})
	assert.ErrorIs(t, err, models.ErrMalformedInput)

	_, err = svc.BuildSession(context.Background(), SessionInput{
		Catalysts: &models.CatalystContext{OverallEventRisk: "severe"},
	})
	assert.ErrorIs(t, err, models.ErrUnknownEnum)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.BuildSession(ctx, SessionInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_UptrendInfersBullish(t *testing.T) {
	svc := newTestService()
	session := uptrendSession(t, svc, nil)

	result, err := svc.Analyze(context.Background(), session, Request{
		Ticker:  " msft ",
		Bars:    trendBars(260, 300, 1),
		Horizon: models.HorizonSwing,
	})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", result.Ticker)
	assert.Equal(t, models.DirectionBullish, result.Direction)
	require.NotNil(t, result.Confidence)
	assert.Greater(t, result.Confidence.TrendAlignment, 50.0)
	assert.GreaterOrEqual(t, result.Confidence.Composite, 0.0)
	assert.LessOrEqual(t, result.Confidence.Composite, 100.0)
	require.NotNil(t, result.Options)
	assert.True(t, result.Options.Strategy.IsValid())
	assert.Equal(t, result.Confidence.Composite, result.Options.Confidence)
	assert.Equal(t, 50.0, result.Options.IVRank)
	assert.Equal(t, []string{"AAPL", "AMZN"}, result.CorrelatedBellwethers)
	assert.Nil(t, result.DaysToEarnings)
}

func TestAnalyze_EarningsFromSession(t *testing.T) {
	svc := newTestService()
	bars := trendBars(260, 300, 1)
	last := bars[len(bars)-1].Timestamp
	session := uptrendSession(t, svc, &models.CatalystContext{
		Earnings: []models.EarningsEvent{{Ticker: "CRM", Date: last.AddDate(0, 0, 2)}},
	})

	iv := 72.0
	result, err := svc.Analyze(context.Background(), session, Request{
		Ticker:    "CRM",
		Bars:      bars,
		Direction: models.DirectionBullish,
		Horizon:   models.HorizonSwing,
		IVRank:    &iv,
	})
	require.NoError(t, err)

	require.NotNil(t, result.DaysToEarnings)
	assert.Equal(t, 2, *result.DaysToEarnings)
	assert.Equal(t, 72.0, result.Options.IVRank)
	require.NotNil(t, result.Snapshot.IVRank)
	assert.Equal(t, 72.0, *result.Snapshot.IVRank)
	if result.Confidence.Composite >= 50 {
		assert.Contains(t, []models.OptionsStrategy{
			models.StrategyIronCondor, models.StrategyStraddle, models.StrategyLongCall,
		}, result.Options.Strategy)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	svc := newTestService()

	// too short for an EMA stack and no session to fall back on
	_, err := svc.Analyze(context.Background(), nil, Request{
		Ticker:  "T",
		Bars:    trendBars(5, 10, 1),
		Horizon: models.HorizonSwing,
	})
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)

	_, err = svc.Analyze(context.Background(), nil, Request{
		Ticker:    "T",
		Bars:      trendBars(5, 10, 1),
		Direction: models.DirectionNeutral,
		Horizon:   models.HorizonSwing,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Analyze(context.Background(), nil, Request{
		Ticker:    "T",
		Bars:      nil,
		Direction: models.DirectionBullish,
		Horizon:   models.HorizonSwing,
	})
	assert.ErrorIs(t, err, models.ErrMalformedInput)

	_, err = svc.Analyze(context.Background(), nil, Request{
		Ticker:    "T",
		Bars:      trendBars(30, 10, 1),
		Direction: models.DirectionBullish,
		Horizon:   "weekly",
	})
	assert.ErrorIs(t, err, models.ErrUnknownEnum)
}

func TestAnalyzeBatch(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Analysis.Concurrency = 2
	svc := NewService(config, arbor.NewLogger())
	session := uptrendSession(t, svc, nil)

	tickers := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	reqs := make([]Request, len(tickers))
	for i, tk := range tickers {
		reqs[i] = Request{
			Ticker:    tk,
			Bars:      trendBars(120+i*10, 50, 0.5),
			Direction: models.DirectionBullish,
			Horizon:   models.HorizonDayTrade,
		}
	}

	results, err := svc.AnalyzeBatch(context.Background(), session, reqs)
	require.NoError(t, err)
	require.Len(t, results, len(tickers))
	for i, r := range results {
		assert.Equal(t, tickers[i], r.Ticker)
		assert.Equal(t, 120+i*10, r.Snapshot.Bars)
	}

	reqs[3].Bars = nil
	_, err = svc.AnalyzeBatch(context.Background(), session, reqs)
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}
