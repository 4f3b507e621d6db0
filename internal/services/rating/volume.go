package rating

import (
	"fmt"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// ScoreVolume scores relative volume, OBV trend and the VWAP side.
//
// - RVOL >= 2.0: +25, >= 1.5: +15, >= 1.0: +5, < 0.7: -15
// - OBV trend with the trade: +15, against: -15
// - Price on the trade side of VWAP: +5, on the wrong side: -5
func ScoreVolume(snap signals.IndicatorSnapshot, direction models.Direction) ComponentResult {
	score := NeutralScore
	var notes []string

	if snap.RVOL != nil {
		rv := *snap.RVOL
		switch {
		case rv >= 2.0:
			score += 25
		case rv >= 1.5:
			score += 15
		case rv >= 1.0:
			score += 5
		case rv < 0.7:
			score -= 15
		}
		notes = append(notes, fmt.Sprintf("RVOL %.2f", rv))
	}

	if snap.OBVTrend != nil {
		if *snap.OBVTrend == direction {
			score += 15
			notes = append(notes, "OBV confirms")
		} else if *snap.OBVTrend != models.DirectionNeutral {
			score -= 15
			notes = append(notes, "OBV diverges")
		}
	}

	if v := snap.PriceVsVWAP; v != nil {
		switch {
		case direction == models.DirectionBullish && *v == signals.VWAPAbove,
			direction == models.DirectionBearish && *v == signals.VWAPBelow:
			score += 5
			notes = append(notes, fmt.Sprintf("price %s VWAP", *v))
		case direction == models.DirectionBullish && *v == signals.VWAPBelow,
			direction == models.DirectionBearish && *v == signals.VWAPAbove:
			score -= 5
			notes = append(notes, fmt.Sprintf("price %s VWAP", *v))
		}
	}

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}
