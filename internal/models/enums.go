package models

import (
	"fmt"
	"strings"
)

// Direction is the directional thesis of a trade or market
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// IsValid checks if the Direction is a known value
func (d Direction) IsValid() bool {
	switch d {
	case DirectionBullish, DirectionBearish, DirectionNeutral:
		return true
	}
	return false
}

// IsDirectional reports whether the direction is bullish or bearish
func (d Direction) IsDirectional() bool {
	return d == DirectionBullish || d == DirectionBearish
}

// ParseDirection converts a user supplied string into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: direction %q", ErrUnknownEnum, s)
	}
	return d, nil
}

// Horizon is the intended holding period
type Horizon string

const (
	HorizonDayTrade Horizon = "day_trade"
	HorizonSwing    Horizon = "swing"
)

// IsValid checks if the Horizon is a known value
func (h Horizon) IsValid() bool {
	return h == HorizonDayTrade || h == HorizonSwing
}

// ParseHorizon converts a user supplied string into a Horizon.
// "intraday" and "multi_day" are accepted as aliases.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day_trade", "daytrade", "day", "intraday":
		return HorizonDayTrade, nil
	case "swing", "multi_day", "multiday":
		return HorizonSwing, nil
	}
	return "", fmt.Errorf("%w: horizon %q", ErrUnknownEnum, s)
}

// RegimeType labels a benchmark index's trend and volatility state
type RegimeType string

const (
	RegimeStrongUptrend   RegimeType = "strong_uptrend"
	RegimeUptrend         RegimeType = "uptrend"
	RegimeRangeBound      RegimeType = "range_bound"
	RegimeDowntrend       RegimeType = "downtrend"
	RegimeStrongDowntrend RegimeType = "strong_downtrend"
	RegimeHighVolatility  RegimeType = "high_volatility"
)

// IsValid checks if the RegimeType is a known value
func (r RegimeType) IsValid() bool {
	switch r {
	case RegimeStrongUptrend, RegimeUptrend, RegimeRangeBound,
		RegimeDowntrend, RegimeStrongDowntrend, RegimeHighVolatility:
		return true
	}
	return false
}

// IsBullish reports an uptrend of either strength
func (r RegimeType) IsBullish() bool {
	return r == RegimeStrongUptrend || r == RegimeUptrend
}

// IsBearish reports a downtrend of either strength
func (r RegimeType) IsBearish() bool {
	return r == RegimeStrongDowntrend || r == RegimeDowntrend
}

// EventRisk is the aggregate catalyst risk level
type EventRisk string

const (
	EventRiskLow      EventRisk = "low"
	EventRiskModerate EventRisk = "moderate"
	EventRiskHigh     EventRisk = "high"
	EventRiskExtreme  EventRisk = "extreme"
)

// IsValid checks if the EventRisk is a known value
func (e EventRisk) IsValid() bool {
	switch e {
	case EventRiskLow, EventRiskModerate, EventRiskHigh, EventRiskExtreme:
		return true
	}
	return false
}

// IsElevated reports high or extreme risk
func (e EventRisk) IsElevated() bool {
	return e == EventRiskHigh || e == EventRiskExtreme
}

// OptionsStrategy is one of the ten supported structures
type OptionsStrategy string

const (
	StrategyLongCall       OptionsStrategy = "long_call"
	StrategyLongPut        OptionsStrategy = "long_put"
	StrategyBullCallSpread OptionsStrategy = "bull_call_spread"
	StrategyBearPutSpread  OptionsStrategy = "bear_put_spread"
	StrategyBullPutSpread  OptionsStrategy = "bull_put_spread"
	StrategyBearCallSpread OptionsStrategy = "bear_call_spread"
	StrategyIronCondor     OptionsStrategy = "iron_condor"
	StrategyStraddle       OptionsStrategy = "straddle"
	StrategyStrangle       OptionsStrategy = "strangle"
	StrategyStockOnly      OptionsStrategy = "stock_only"
)

// AllStrategies lists the closed set of strategies
func AllStrategies() []OptionsStrategy {
	return []OptionsStrategy{
		StrategyLongCall, StrategyLongPut, StrategyBullCallSpread, StrategyBearPutSpread,
		StrategyBullPutSpread, StrategyBearCallSpread, StrategyIronCondor,
		StrategyStraddle, StrategyStrangle, StrategyStockOnly,
	}
}

// IsValid checks if the OptionsStrategy is a known value
func (s OptionsStrategy) IsValid() bool {
	for _, known := range AllStrategies() {
		if s == known {
			return true
		}
	}
	return false
}

// PositioningBias is the catalyst aggregator's read on crowd positioning
type PositioningBias string

const (
	PositioningRiskOn          PositioningBias = "risk-on"
	PositioningRiskOff         PositioningBias = "risk-off"
	PositioningNeutral         PositioningBias = "neutral"
	PositioningWaitForCatalyst PositioningBias = "wait-for-catalyst"
)

// IsValid checks if the PositioningBias is a known value
func (p PositioningBias) IsValid() bool {
	switch p {
	case PositioningRiskOn, PositioningRiskOff, PositioningNeutral, PositioningWaitForCatalyst:
		return true
	}
	return false
}
