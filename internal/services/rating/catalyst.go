package rating

import (
	"fmt"
	"math"

	"github.com/ternarybob/tradepilot/internal/models"
)

const (
	macroEventPenalty        = 5.0
	geopoliticalEventPenalty = 8.0
	geopoliticalPenaltyCap   = 20.0
)

var eventRiskPenalty = map[models.EventRisk]float64{
	models.EventRiskLow:      0,
	models.EventRiskModerate: -5,
	models.EventRiskHigh:     -15,
	models.EventRiskExtreme:  -25,
}

// ScoreCatalysts scores the week's event risk and positioning.
//
// - Overall risk low/moderate/high/extreme: 0/-5/-15/-25
// - Positioning risk-on bullish or risk-off bearish: +15; opposite: -10;
//   wait-for-catalyst: -10
// - Each high or extreme macro event: -5
// - Each active geopolitical event: -8, capped at -20
func ScoreCatalysts(c models.CatalystContext, direction models.Direction) ComponentResult {
	score := NeutralScore
	var notes []string

	risk := c.RiskLevel()
	score += eventRiskPenalty[risk]
	notes = append(notes, fmt.Sprintf("event risk %s", risk))

	bullish := direction == models.DirectionBullish
	switch {
	case c.PositioningBias == models.PositioningRiskOn && bullish,
		c.PositioningBias == models.PositioningRiskOff && !bullish:
		score += 15
		notes = append(notes, fmt.Sprintf("positioning %s aligned", c.PositioningBias))
	case c.PositioningBias == models.PositioningRiskOn && !bullish,
		c.PositioningBias == models.PositioningRiskOff && bullish:
		score -= 10
		notes = append(notes, fmt.Sprintf("positioning %s opposed", c.PositioningBias))
	case c.PositioningBias == models.PositioningWaitForCatalyst:
		score -= 10
		notes = append(notes, "waiting for catalyst")
	}

	highImpact := 0
	for _, e := range c.MacroEvents {
		if e.ExpectedImpact.IsElevated() {
			highImpact++
		}
	}
	if highImpact > 0 {
		score -= float64(highImpact) * macroEventPenalty
		notes = append(notes, fmt.Sprintf("%d high-impact macro events", highImpact))
	}

	if active := len(c.Geopolitical); active > 0 {
		score -= math.Min(float64(active)*geopoliticalEventPenalty, geopoliticalPenaltyCap)
		notes = append(notes, fmt.Sprintf("%d active geopolitical events", active))
	}

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}
