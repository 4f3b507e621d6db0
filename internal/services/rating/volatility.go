package rating

import (
	"fmt"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

const squeezeBonus = 15.0

// ScoreVolatility scores ATR% against the horizon and rewards a Bollinger squeeze.
//
// Day trade: ATR% >= 3: +20, >= 2: +10, < 1: -20
// Swing: 1.5 <= ATR% <= 4: +15, > 6: -15
func ScoreVolatility(snap signals.IndicatorSnapshot, horizon models.Horizon) ComponentResult {
	score := NeutralScore
	var notes []string

	if snap.ATRPercent != nil {
		atr := *snap.ATRPercent
		if horizon == models.HorizonDayTrade {
			switch {
			case atr >= 3:
				score += 20
			case atr >= 2:
				score += 10
			case atr < 1:
				score -= 20
			}
		} else {
			switch {
			case atr >= 1.5 && atr <= 4:
				score += 15
			case atr > 6:
				score -= 15
			}
		}
		notes = append(notes, fmt.Sprintf("ATR %.2f%% for %s", atr, horizon))
	}

	if snap.Bollinger != nil && snap.Bollinger.Squeeze {
		score += squeezeBonus
		notes = append(notes, "Bollinger squeeze")
	}

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}
