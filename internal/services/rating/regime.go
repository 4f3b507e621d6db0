package rating

import (
	"fmt"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// ScoreRegime scores the trade against the session's market regime.
//
// - Market direction with the trade: +20, against: -20
// - Primary index trending with the trade: +15, against: -15
// - VIX < 15: +5 bullish / -5 bearish; > 30: -10; > 25: +5 bearish / -5 bullish
func ScoreRegime(regime signals.MarketRegime, direction models.Direction) ComponentResult {
	score := NeutralScore
	var notes []string

	switch {
	case regime.MarketDirection == direction:
		score += 20
		notes = append(notes, "market direction aligned")
	case regime.MarketDirection != models.DirectionNeutral:
		score -= 20
		notes = append(notes, "trading against market direction")
	}

	withTrend := (direction == models.DirectionBullish && regime.PrimaryRegime.IsBullish()) ||
		(direction == models.DirectionBearish && regime.PrimaryRegime.IsBearish())
	againstTrend := (direction == models.DirectionBullish && regime.PrimaryRegime.IsBearish()) ||
		(direction == models.DirectionBearish && regime.PrimaryRegime.IsBullish())
	if withTrend {
		score += 15
	} else if againstTrend {
		score -= 15
	}
	notes = append(notes, fmt.Sprintf("primary %s", regime.PrimaryRegime))

	vix := regime.VIX
	switch {
	case vix < 15:
		if direction == models.DirectionBullish {
			score += 5
		} else {
			score -= 5
		}
	case vix > 30:
		score -= 10
	case vix > 25:
		if direction == models.DirectionBearish {
			score += 5
		} else {
			score -= 5
		}
	}
	notes = append(notes, fmt.Sprintf("VIX %.2f", vix))

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}
