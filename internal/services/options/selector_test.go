package options

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tradepilot/internal/models"
)

func f64(v float64) *float64 { return &v }
func days(v int) *int         { return &v }

func TestRecommend_DecisionTree(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want models.OptionsStrategy
	}{
		{"day trade high confidence long", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBullish, Confidence: 85}, models.StrategyLongCall},
		{"day trade high confidence short", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBearish, Confidence: 70}, models.StrategyLongPut},
		{"day trade moderate long", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBullish, Confidence: 69.9}, models.StrategyBullCallSpread},
		{"day trade moderate short", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBearish, Confidence: 50}, models.StrategyBearPutSpread},
		{"day trade neutral", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionNeutral, Confidence: 90}, models.StrategyStockOnly},

		{"below floor", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 49.9, IVRank: f64(80)}, models.StrategyStockOnly},
		{"below floor beats earnings", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 40, DaysToEarnings: days(1)}, models.StrategyStockOnly},

		{"earnings neutral", Input{Horizon: models.HorizonSwing, Direction: models.DirectionNeutral, Confidence: 90, DaysToEarnings: days(2)}, models.StrategyIronCondor},
		{"earnings low conviction", Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBullish, Confidence: 59, DaysToEarnings: days(3)}, models.StrategyIronCondor},
		{"earnings lean", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBearish, Confidence: 65, DaysToEarnings: days(0)}, models.StrategyStraddle},
		{"earnings conviction short", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBearish, Confidence: 75, DaysToEarnings: days(1)}, models.StrategyLongPut},
		{"earnings outside window", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 75, DaysToEarnings: days(4)}, models.StrategyLongCall},

		{"swing high IV bullish", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 55, IVRank: f64(60)}, models.StrategyBullPutSpread},
		{"swing high IV bearish", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBearish, Confidence: 80, IVRank: f64(75)}, models.StrategyBearCallSpread},
		{"swing high IV low conviction", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 54, IVRank: f64(70)}, models.StrategyIronCondor},
		{"swing high IV neutral", Input{Horizon: models.HorizonSwing, Direction: models.DirectionNeutral, Confidence: 70, IVRank: f64(70)}, models.StrategyIronCondor},

		{"swing low IV conviction", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 65, IVRank: f64(20)}, models.StrategyLongCall},
		{"swing low IV moderate", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBearish, Confidence: 64, IVRank: f64(29.9)}, models.StrategyBearPutSpread},
		{"swing low IV neutral", Input{Horizon: models.HorizonSwing, Direction: models.DirectionNeutral, Confidence: 80, IVRank: f64(10)}, models.StrategyStockOnly},

		{"swing mid IV conviction", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBearish, Confidence: 70, IVRank: f64(30)}, models.StrategyLongPut},
		{"swing mid IV moderate", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60}, models.StrategyBullCallSpread},
		{"swing mid IV neutral", Input{Horizon: models.HorizonSwing, Direction: models.DirectionNeutral, Confidence: 60}, models.StrategyStockOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Recommend(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Strategy)
			assert.True(t, rec.Strategy.IsValid())
			assert.NotEmpty(t, rec.Rationale)
			assert.NotEmpty(t, rec.Structure)
		})
	}
}

func TestRecommend_DayTradeLongCallStructure(t *testing.T) {
	rec, err := Recommend(Input{Horizon: models.HorizonDayTrade, Direction: models.DirectionBullish, Confidence: 85})
	require.NoError(t, err)

	assert.Equal(t, models.StrategyLongCall, rec.Strategy)
	assert.Equal(t, "Buy ATM or slightly OTM call, 0-2 DTE for gamma. Target 50% profit, stop at 30%.", rec.Structure)
	assert.Contains(t, rec.Rationale, "85")
	assert.Contains(t, rec.Rationale, "70")
	assert.Equal(t, DefaultIVRank, rec.IVRank)
	assert.Equal(t, 85.0, rec.Confidence)
}

func TestRecommend_LowConfidenceAlwaysStockOnly(t *testing.T) {
	for _, h := range []models.Horizon{models.HorizonDayTrade, models.HorizonSwing} {
		for _, d := range []models.Direction{models.DirectionBullish, models.DirectionBearish, models.DirectionNeutral} {
			for _, iv := range []float64{0, 29, 45, 60, 100} {
				for _, e := range []*int{nil, days(0), days(3), days(10)} {
					rec, err := Recommend(Input{Horizon: h, Direction: d, Confidence: 40, IVRank: f64(iv), DaysToEarnings: e, CatalystRisk: models.EventRiskExtreme})
					require.NoError(t, err)
					assert.Equal(t, models.StrategyStockOnly, rec.Strategy, "%s %s iv=%v", h, d, iv)
				}
			}
		}
	}
}

func TestRecommend_ElevatedCatalystRiskNote(t *testing.T) {
	rec, err := Recommend(Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 72, CatalystRisk: models.EventRiskHigh})
	require.NoError(t, err)
	assert.Contains(t, rec.Rationale, "Catalyst risk is high")

	rec, err = Recommend(Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 72, CatalystRisk: models.EventRiskModerate})
	require.NoError(t, err)
	assert.NotContains(t, rec.Rationale, "Catalyst risk")
}

func TestRecommend_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr error
	}{
		{"unknown horizon", Input{Horizon: "weekly", Direction: models.DirectionBullish, Confidence: 60}, models.ErrUnknownEnum},
		{"unknown direction", Input{Horizon: models.HorizonSwing, Direction: "up", Confidence: 60}, models.ErrUnknownEnum},
		{"unknown catalyst risk", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60, CatalystRisk: "severe"}, models.ErrUnknownEnum},
		{"confidence above range", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 101}, models.ErrInvalidInput},
		{"iv rank above range", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60, IVRank: f64(150)}, models.ErrInvalidInput},
		{"negative days", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60, DaysToEarnings: days(-1)}, models.ErrInvalidInput},
		{"nan confidence", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: math.NaN()}, models.ErrInvalidInput},
		{"infinite confidence", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: math.Inf(1)}, models.ErrInvalidInput},
		{"negative infinite confidence", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: math.Inf(-1)}, models.ErrInvalidInput},
		{"nan iv rank", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60, IVRank: f64(math.NaN())}, models.ErrInvalidInput},
		{"infinite iv rank", Input{Horizon: models.HorizonSwing, Direction: models.DirectionBullish, Confidence: 60, IVRank: f64(math.Inf(1))}, models.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recommend(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
