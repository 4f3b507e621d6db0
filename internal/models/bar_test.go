package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(day int, close float64) Bar {
	return Bar{
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Open:      close,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Volume:    1000,
	}
}

func TestValidateBars(t *testing.T) {
	tests := []struct {
		name    string
		bars    []Bar
		wantErr bool
	}{
		{name: "empty", bars: nil, wantErr: true},
		{name: "single bar", bars: []Bar{bar(0, 10)}},
		{name: "increasing", bars: []Bar{bar(0, 10), bar(1, 11), bar(2, 12)}},
		{name: "duplicate timestamp", bars: []Bar{bar(0, 10), bar(0, 11)}, wantErr: true},
		{name: "out of order", bars: []Bar{bar(1, 10), bar(0, 11)}, wantErr: true},
		{name: "zero close", bars: []Bar{bar(0, 10), {Timestamp: bar(1, 1).Timestamp, Open: 1, High: 1, Low: 1, Close: 0}}, wantErr: true},
		{name: "negative volume", bars: []Bar{{Timestamp: bar(0, 1).Timestamp, Open: 1, High: 1, Low: 1, Close: 1, Volume: -1}}, wantErr: true},
		{name: "nan close", bars: []Bar{{Timestamp: bar(0, 1).Timestamp, Open: 1, High: 1, Low: 1, Close: math.NaN()}}, wantErr: true},
		{name: "inf high", bars: []Bar{{Timestamp: bar(0, 1).Timestamp, Open: 1, High: math.Inf(1), Low: 1, Close: 1}}, wantErr: true},
		{name: "zero volume allowed", bars: []Bar{{Timestamp: bar(0, 1).Timestamp, Open: 1, High: 1, Low: 1, Close: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBars(tt.bars)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseEnums(t *testing.T) {
	d, err := ParseDirection(" Bullish ")
	require.NoError(t, err)
	assert.Equal(t, DirectionBullish, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	h, err := ParseHorizon("intraday")
	require.NoError(t, err)
	assert.Equal(t, HorizonDayTrade, h)

	h, err = ParseHorizon("swing")
	require.NoError(t, err)
	assert.Equal(t, HorizonSwing, h)

	_, err = ParseHorizon("position")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	assert.Len(t, AllStrategies(), 10)
	assert.False(t, OptionsStrategy("covered_call").IsValid())
}

func TestCatalystContextValidate(t *testing.T) {
	ctx := &CatalystContext{
		OverallEventRisk: EventRiskHigh,
		PositioningBias:  PositioningRiskOff,
		MacroEvents: []ScheduledEvent{
			{Name: "CPI", ExpectedImpact: EventRiskHigh, Category: CatalystMacro},
		},
	}
	assert.NoError(t, ctx.Validate())
	assert.Equal(t, EventRiskHigh, ctx.RiskLevel())

	ctx.PositioningBias = "euphoric"
	assert.ErrorIs(t, ctx.Validate(), ErrUnknownEnum)

	var nilCtx *CatalystContext
	assert.NoError(t, nilCtx.Validate())
	assert.Equal(t, EventRiskLow, nilCtx.RiskLevel())
}
