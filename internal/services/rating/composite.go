package rating

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Composite weights, summing to 1.0
const (
	WeightTrend      = 0.15
	WeightMomentum   = 0.12
	WeightVolume     = 0.12
	WeightVolatility = 0.08
	WeightRegime     = 0.13
	WeightCatalyst   = 0.13
	WeightHistorical = 0.12
	WeightPersonal   = 0.15
)

// Grade thresholds
const (
	ThresholdA = 80.0
	ThresholdB = 65.0
	ThresholdC = 50.0
	ThresholdD = 35.0
)

// NeutralScore is the baseline for every component and the value used
// when an optional input is absent
const NeutralScore = 50.0

var gradeLabels = map[Grade]string{
	GradeA: "High Conviction",
	GradeB: "Favorable Setup",
	GradeC: "Mixed Signals",
	GradeD: "Proceed With Caution",
	GradeF: "Avoid",
}

// Score combines all component scores into the composite confidence.
//
// Composite formula:
// trend*0.15 + momentum*0.12 + volume*0.12 + volatility*0.08 +
// regime*0.13 + catalyst*0.13 + historical*0.12 + personal*0.15
// rounded to one decimal. Range: 0-100
//
// Grades:
// - A: 80+
// - B: 65-80
// - C: 50-65
// - D: 35-50
// - F: below 35
func Score(in ScoreInput) (*ConfidenceBreakdown, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	regime := ComponentResult{Score: NeutralScore, Reasoning: "No regime supplied"}
	if in.Regime != nil {
		regime = ScoreRegime(*in.Regime, in.Direction)
	}
	catalyst := ComponentResult{Score: NeutralScore, Reasoning: "No catalyst context supplied"}
	if in.Catalysts != nil {
		catalyst = ScoreCatalysts(*in.Catalysts, in.Direction)
	}
	personal := ComponentResult{Score: NeutralScore, Reasoning: "No trade history, neutral"}
	if in.PersonalWinRate != nil {
		personal = ComponentResult{
			Score:     *in.PersonalWinRate,
			Reasoning: fmt.Sprintf("Personal win rate %.1f%%", *in.PersonalWinRate),
		}
	}

	factors := []Factor{
		newFactor(ComponentTrend, WeightTrend, ScoreTrend(in.Snapshot, in.Direction)),
		newFactor(ComponentMomentum, WeightMomentum, ScoreMomentum(in.Snapshot, in.Direction)),
		newFactor(ComponentVolume, WeightVolume, ScoreVolume(in.Snapshot, in.Direction)),
		newFactor(ComponentVolatility, WeightVolatility, ScoreVolatility(in.Snapshot, in.Horizon)),
		newFactor(ComponentRegime, WeightRegime, regime),
		newFactor(ComponentCatalyst, WeightCatalyst, catalyst),
		newFactor(ComponentHistorical, WeightHistorical, ComponentResult{Score: NeutralScore, Reasoning: "Historical analog not evaluated"}),
		newFactor(ComponentPersonal, WeightPersonal, personal),
	}

	composite := calculateComposite(factors)
	grade := determineGrade(composite)

	b := &ConfidenceBreakdown{
		TrendAlignment:       factors[0].Score,
		MomentumConfirmation: factors[1].Score,
		VolumeConfirmation:   factors[2].Score,
		VolatilityContext:    factors[3].Score,
		RegimeAlignment:      factors[4].Score,
		CatalystAlignment:    factors[5].Score,
		HistoricalAnalog:     factors[6].Score,
		PersonalEdge:         factors[7].Score,
		Composite:            composite,
		Grade:                grade,
		Label:                gradeLabels[grade],
		Factors:              factors,
	}
	b.Reasoning = buildReasoning(b)
	return b, nil
}

func validateInput(in ScoreInput) error {
	if !in.Direction.IsValid() {
		return fmt.Errorf("%w: direction %q", models.ErrUnknownEnum, in.Direction)
	}
	if !in.Direction.IsDirectional() {
		return fmt.Errorf("%w: direction must be bullish or bearish to score, got %q", models.ErrInvalidInput, in.Direction)
	}
	if !in.Horizon.IsValid() {
		return fmt.Errorf("%w: horizon %q", models.ErrUnknownEnum, in.Horizon)
	}
	if r := in.Regime; r != nil {
		if !r.PrimaryRegime.IsValid() || !r.MarketDirection.IsValid() {
			return fmt.Errorf("%w: regime %q direction %q", models.ErrUnknownEnum, r.PrimaryRegime, r.MarketDirection)
		}
	}
	if err := in.Catalysts.Validate(); err != nil {
		return err
	}
	if w := in.PersonalWinRate; w != nil && (!isFinite(*w) || *w < 0 || *w > 100) {
		return fmt.Errorf("%w: personal win rate %.2f outside 0-100", models.ErrInvalidInput, *w)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// newFactor clamps the component score and records its weighted contribution.
// Score and Contribution are rounded to two decimals for display; the
// composite is summed from the unrounded score.
func newFactor(c Component, weight float64, r ComponentResult) Factor {
	raw := clampScore(r.Score)
	return Factor{
		Component:    c,
		Score:        RoundTo(raw, 2),
		Weight:       weight,
		Contribution: RoundTo(raw*weight, 2),
		Reasoning:    r.Reasoning,
		raw:          raw,
	}
}

// calculateComposite applies the weighted formula in decimal arithmetic
func calculateComposite(factors []Factor) float64 {
	total := decimal.Zero
	for _, f := range factors {
		total = total.Add(decimal.NewFromFloat(f.raw).Mul(decimal.NewFromFloat(f.Weight)))
	}
	composite, _ := total.Round(1).Float64()
	return ClampFloat64(composite, 0, 100)
}

// determineGrade assigns the letter grade based on composite score
func determineGrade(composite float64) Grade {
	if composite >= ThresholdA {
		return GradeA
	}
	if composite >= ThresholdB {
		return GradeB
	}
	if composite >= ThresholdC {
		return GradeC
	}
	if composite >= ThresholdD {
		return GradeD
	}
	return GradeF
}

func buildReasoning(b *ConfidenceBreakdown) string {
	parts := make([]string, 0, len(b.Factors))
	for _, f := range b.Factors {
		parts = append(parts, fmt.Sprintf("%s=%.1f", f.Component, f.Score))
	}
	return fmt.Sprintf("Composite=%.1f (%s): %s", b.Composite, b.Rating(), strings.Join(parts, " "))
}
