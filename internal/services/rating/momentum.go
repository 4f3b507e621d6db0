package rating

import (
	"fmt"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

const (
	momentumRange          = 40.0 // confirmation ratio 0..1 maps to -20..+20
	momentumExtremePenalty = -10.0
	divergenceAdjust       = 15.0
)

// ScoreMomentum scores RSI, MACD and StochRSI confirmation.
//
// Each present indicator is one signal. Confirmations:
// - RSI in the healthy band (40-70 bullish, 30-60 bearish): 1
// - RSI at the opposite extreme (bounce potential): 0.5
// - RSI at the trade-side extreme: no confirmation, -10
// - MACD histogram on the trade side: 1, line vs signal on the trade side: 0.5
// - StochRSI K vs D on the trade side: 1
//
// score = 50 + (confirmations/signals - 0.5) * 40, then ±15 for an RSI
// divergence aligned with or against the trade.
func ScoreMomentum(snap signals.IndicatorSnapshot, direction models.Direction) ComponentResult {
	score := NeutralScore
	bullish := direction == models.DirectionBullish
	signalCount := 0
	confirmations := 0.0
	var notes []string

	if snap.RSI14 != nil {
		signalCount++
		r := *snap.RSI14
		if bullish {
			switch {
			case r >= 40 && r <= 70:
				confirmations++
			case r > 70:
				score += momentumExtremePenalty
				notes = append(notes, "RSI overbought")
			case r < 30:
				confirmations += 0.5
			}
		} else {
			switch {
			case r >= 30 && r <= 60:
				confirmations++
			case r < 30:
				score += momentumExtremePenalty
				notes = append(notes, "RSI oversold")
			case r > 70:
				confirmations += 0.5
			}
		}
	}

	if m := snap.MACD; m != nil {
		signalCount++
		if bullish {
			if m.Histogram > 0 {
				confirmations++
			}
			if m.Line > m.Signal {
				confirmations += 0.5
			}
		} else {
			if m.Histogram < 0 {
				confirmations++
			}
			if m.Line < m.Signal {
				confirmations += 0.5
			}
		}
	}

	if st := snap.StochRSI; st != nil {
		signalCount++
		if (bullish && st.K > st.D) || (!bullish && st.K < st.D) {
			confirmations++
		}
	}

	if d := snap.RSIDivergence; d != nil {
		aligned := (bullish && *d == signals.DivergenceBullish) || (!bullish && *d == signals.DivergenceBearish)
		opposed := (bullish && *d == signals.DivergenceBearish) || (!bullish && *d == signals.DivergenceBullish)
		if aligned {
			score += divergenceAdjust
			notes = append(notes, "divergence aligned")
		} else if opposed {
			score -= divergenceAdjust
			notes = append(notes, "divergence against trade")
		}
	}

	if signalCount > 0 {
		ratio := confirmations / float64(signalCount)
		score += (ratio - 0.5) * momentumRange
		notes = append(notes, fmt.Sprintf("%.1f of %d momentum signals confirm", confirmations, signalCount))
	}

	return ComponentResult{Score: clampScore(score), Reasoning: joinNotes(notes)}
}
