package rating

import (
	"strings"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// Trend adjustments
const (
	trendStackAdjust   = 25.0
	trendAboveEMA20    = 10.0
	trendAboveEMA50    = 8.0
	trendAboveEMA200   = 7.0
	trendAgainstEMA200 = -15.0
)

// ScoreTrend scores EMA alignment with the trade direction.
//
// - EMA stack matching the direction: +25, opposing: -25, mixed: 0
// - Price on the trade side of EMA20/50/200: +10/+8/+7
// - Price on the wrong side of EMA200: -15
func ScoreTrend(snap signals.IndicatorSnapshot, direction models.Direction) ComponentResult {
	score := NeutralScore
	var notes []string

	if snap.EMAStack != nil {
		switch {
		case stackMatches(*snap.EMAStack, direction):
			score += trendStackAdjust
			notes = append(notes, "EMA stack aligned")
		case *snap.EMAStack != signals.StackMixed:
			score -= trendStackAdjust
			notes = append(notes, "EMA stack opposed")
		}
	}

	// with returns true when the price sits on the trade side of the EMA
	with := func(ema float64) bool {
		if direction == models.DirectionBullish {
			return snap.Price > ema
		}
		return snap.Price < ema
	}
	against := func(ema float64) bool {
		if direction == models.DirectionBullish {
			return snap.Price < ema
		}
		return snap.Price > ema
	}

	if snap.EMA20 != nil && with(*snap.EMA20) {
		score += trendAboveEMA20
		notes = append(notes, "price confirms EMA20")
	}
	if snap.EMA50 != nil && with(*snap.EMA50) {
		score += trendAboveEMA50
		notes = append(notes, "price confirms EMA50")
	}
	if snap.EMA200 != nil {
		if with(*snap.EMA200) {
			score += trendAboveEMA200
			notes = append(notes, "price confirms EMA200")
		}
		if against(*snap.EMA200) {
			score += trendAgainstEMA200
			notes = append(notes, "price against EMA200")
		}
	}

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}

func stackMatches(stack signals.StackLabel, direction models.Direction) bool {
	return (stack == signals.StackBullish && direction == models.DirectionBullish) ||
		(stack == signals.StackBearish && direction == models.DirectionBearish)
}

func joinNotes(notes []string) string {
	if len(notes) == 0 {
		return "No adjustments, neutral"
	}
	return strings.Join(notes, "; ")
}
