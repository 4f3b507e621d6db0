package options

import (
	"fmt"
	"math"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Decision thresholds
const (
	ConfidenceFloor        = 50.0 // below this no options structure is recommended
	EarningsWindowDays     = 3
	EarningsCondorBelow    = 60.0
	EarningsDirectionalMin = 70.0
	DayTradeLongMin        = 70.0
	HighIVRank             = 60.0
	LowIVRank              = 30.0
	CreditSpreadMin        = 55.0
	LowIVLongMin           = 65.0
	MidIVLongMin           = 70.0
	DefaultIVRank          = 50.0
)

// Recommend walks the decision tree:
//
//  1. confidence below 50 → stock only
//  2. earnings within 3 days → iron condor, long option or straddle
//  3. day trade → long option at 70+, debit spread otherwise
//  4. swing → credit spreads or iron condor in high IV, long options or
//     debit spreads in low and mid IV
//  5. anything without a directional edge → stock only
func Recommend(in Input) (*Recommendation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	ivRank := DefaultIVRank
	if in.IVRank != nil {
		ivRank = *in.IVRank
	}

	var rec Recommendation
	switch {
	case in.Confidence < ConfidenceFloor:
		rec = Recommendation{
			Strategy: models.StrategyStockOnly,
			Rationale: fmt.Sprintf("Confidence %.0f is below the %.0f floor. Options leverage is inappropriate. Trade stock for reduced risk, or wait for a better setup.",
				in.Confidence, ConfidenceFloor),
			Structure: "Stock shares only. Smaller position size.",
		}
	case in.DaysToEarnings != nil && *in.DaysToEarnings <= EarningsWindowDays:
		rec = earningsPlay(in.Direction, ivRank, in.Confidence, *in.DaysToEarnings)
	case in.Horizon == models.HorizonDayTrade:
		rec = dayTradeStrategy(in.Direction, ivRank, in.Confidence)
	default:
		rec = swingStrategy(in.Direction, ivRank, in.Confidence)
	}

	risk := in.CatalystRisk
	if risk == "" {
		risk = models.EventRiskLow
	}
	if risk.IsElevated() && rec.Strategy != models.StrategyStockOnly {
		rec.Rationale += fmt.Sprintf(" Catalyst risk is %s this week; reduce size.", risk)
	}

	rec.IVRank = ivRank
	rec.Confidence = in.Confidence
	return &rec, nil
}

func validateInput(in Input) error {
	if !in.Horizon.IsValid() {
		return fmt.Errorf("%w: horizon %q", models.ErrUnknownEnum, in.Horizon)
	}
	if !in.Direction.IsValid() {
		return fmt.Errorf("%w: direction %q", models.ErrUnknownEnum, in.Direction)
	}
	if in.CatalystRisk != "" && !in.CatalystRisk.IsValid() {
		return fmt.Errorf("%w: catalyst risk %q", models.ErrUnknownEnum, in.CatalystRisk)
	}
	if math.IsNaN(in.Confidence) || in.Confidence < 0 || in.Confidence > 100 {
		return fmt.Errorf("%w: confidence %.2f outside 0-100", models.ErrInvalidInput, in.Confidence)
	}
	if in.IVRank != nil && (math.IsNaN(*in.IVRank) || *in.IVRank < 0 || *in.IVRank > 100) {
		return fmt.Errorf("%w: iv rank %.2f outside 0-100", models.ErrInvalidInput, *in.IVRank)
	}
	if in.DaysToEarnings != nil && *in.DaysToEarnings < 0 {
		return fmt.Errorf("%w: days to earnings %d", models.ErrInvalidInput, *in.DaysToEarnings)
	}
	return nil
}

// earningsPlay handles an earnings release inside the window. IV is
// typically inflated ahead of the release.
func earningsPlay(direction models.Direction, ivRank, score float64, days int) Recommendation {
	if direction == models.DirectionNeutral || score < EarningsCondorBelow {
		return Recommendation{
			Strategy: models.StrategyIronCondor,
			Rationale: fmt.Sprintf("Earnings in %d days (window %d). IV is elevated (rank %.0f). Confidence %.0f is below %.0f or direction is neutral; iron condor profits from post-earnings IV crush if the stock stays within the expected move.",
				days, EarningsWindowDays, ivRank, score, EarningsCondorBelow),
			Structure: "Iron condor with wings at expected move boundaries. Expiry immediately after earnings.",
		}
	}

	if score >= EarningsDirectionalMin {
		return Recommendation{
			Strategy: longOption(direction),
			Rationale: fmt.Sprintf("High conviction (%.0f, at or above %.0f) directional earnings play. WARNING: IV crush will erode premium post-earnings even if direction is correct. The stock must move beyond the expected move to profit.",
				score, EarningsDirectionalMin),
			Structure: fmt.Sprintf("Buy %s, slightly OTM past the expected move. Consider a debit spread to reduce IV crush impact.",
				optionSide(direction)),
		}
	}

	return Recommendation{
		Strategy: models.StrategyStraddle,
		Rationale: fmt.Sprintf("Earnings play with a directional lean (%.0f, between %.0f and %.0f) but not enough conviction for a pure directional position. Straddle profits from a large move in either direction.",
			score, EarningsCondorBelow, EarningsDirectionalMin),
		Structure: "Buy straddle: ATM call + ATM put, expiry right after earnings. Requires a move beyond both breakevens.",
	}
}

// dayTradeStrategy favors directional plays with leverage
func dayTradeStrategy(direction models.Direction, ivRank, score float64) Recommendation {
	if direction == models.DirectionNeutral {
		return noEdge(score)
	}

	if score >= DayTradeLongMin {
		return Recommendation{
			Strategy: longOption(direction),
			Rationale: fmt.Sprintf("High confidence (%.0f, at or above %.0f) day trade. Direct long options for leverage. IV rank %.0f is acceptable for an intraday hold.",
				score, DayTradeLongMin, ivRank),
			Structure: fmt.Sprintf("Buy ATM or slightly OTM %s, 0-2 DTE for gamma. Target 50%% profit, stop at 30%%.",
				optionSide(direction)),
		}
	}

	return Recommendation{
		Strategy: debitSpread(direction),
		Rationale: fmt.Sprintf("Moderate confidence (%.0f, below %.0f) day trade. Debit spread caps risk while keeping directional exposure.",
			score, DayTradeLongMin),
		Structure: fmt.Sprintf("%s spread, tight strikes ($1-2 wide), 0-5 DTE.", spreadName(direction)),
	}
}

// swingStrategy lets the IV environment decide between buying and selling premium
func swingStrategy(direction models.Direction, ivRank, score float64) Recommendation {
	if ivRank >= HighIVRank {
		switch {
		case direction == models.DirectionBullish && score >= CreditSpreadMin:
			return Recommendation{
				Strategy: models.StrategyBullPutSpread,
				Rationale: fmt.Sprintf("IV rank %.0f is at or above %.0f, favor selling premium. Bull put spread collects credit with defined downside risk and theta on your side.",
					ivRank, HighIVRank),
				Structure: "Sell put spread below support. 30-45 DTE. Short strike at or below key support level.",
			}
		case direction == models.DirectionBearish && score >= CreditSpreadMin:
			return Recommendation{
				Strategy: models.StrategyBearCallSpread,
				Rationale: fmt.Sprintf("IV rank %.0f is at or above %.0f, favor selling premium. Bear call spread profits from theta and a move down.",
					ivRank, HighIVRank),
				Structure: "Sell call spread above resistance. 30-45 DTE. Short strike at or above key resistance level.",
			}
		default:
			return Recommendation{
				Strategy: models.StrategyIronCondor,
				Rationale: fmt.Sprintf("High IV (rank %.0f) with a neutral direction or confidence %.0f below %.0f. Iron condor profits from range-bound action and IV crush.",
					ivRank, score, CreditSpreadMin),
				Structure: "Iron condor with wings outside the expected move. 30-45 DTE. Manage at 50% max profit or a loss of 2x the credit received.",
			}
		}
	}

	if direction == models.DirectionNeutral {
		return noEdge(score)
	}

	if ivRank < LowIVRank {
		if score >= LowIVLongMin {
			return Recommendation{
				Strategy: longOption(direction),
				Rationale: fmt.Sprintf("IV rank %.0f is below %.0f, premium is cheap. Confidence %.0f (at or above %.0f) supports directional long options; IV expansion adds to profit.",
					ivRank, LowIVRank, score, LowIVLongMin),
				Structure: fmt.Sprintf("Buy %s, ATM or 1 strike OTM. 30-60 DTE. Look for an IV expansion catalyst.",
					optionSide(direction)),
			}
		}
		return Recommendation{
			Strategy: debitSpread(direction),
			Rationale: fmt.Sprintf("Low IV (rank %.0f, below %.0f) with moderate confidence (%.0f). Debit spread is cost-effective with a defined max loss.",
				ivRank, LowIVRank, score),
			Structure: fmt.Sprintf("%s spread, 21-45 DTE. Strikes around key technical levels.", spreadName(direction)),
		}
	}

	if score >= MidIVLongMin {
		return Recommendation{
			Strategy: longOption(direction),
			Rationale: fmt.Sprintf("Mid IV (rank %.0f) with high confidence (%.0f, at or above %.0f). Strong setup justifies long premium exposure.",
				ivRank, score, MidIVLongMin),
			Structure: fmt.Sprintf("Buy %s, ATM to slightly OTM. 30-45 DTE.", optionSide(direction)),
		}
	}
	return Recommendation{
		Strategy: debitSpread(direction),
		Rationale: fmt.Sprintf("Mid IV (rank %.0f) with moderate confidence (%.0f, below %.0f). Debit spread balances directional exposure with defined risk.",
			ivRank, score, MidIVLongMin),
		Structure: fmt.Sprintf("%s spread, 21-45 DTE.", spreadName(direction)),
	}
}

func noEdge(score float64) Recommendation {
	return Recommendation{
		Strategy:  models.StrategyStockOnly,
		Rationale: fmt.Sprintf("No clear directional edge (confidence %.0f, neutral direction). Avoid options. Trade stock or wait.", score),
		Structure: "Stock only or no trade.",
	}
}

func longOption(direction models.Direction) models.OptionsStrategy {
	if direction == models.DirectionBullish {
		return models.StrategyLongCall
	}
	return models.StrategyLongPut
}

func debitSpread(direction models.Direction) models.OptionsStrategy {
	if direction == models.DirectionBullish {
		return models.StrategyBullCallSpread
	}
	return models.StrategyBearPutSpread
}

func optionSide(direction models.Direction) string {
	if direction == models.DirectionBullish {
		return "call"
	}
	return "put"
}

func spreadName(direction models.Direction) string {
	if direction == models.DirectionBullish {
		return "Bull call"
	}
	return "Bear put"
}
