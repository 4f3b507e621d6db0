// Package rating provides pure calculation functions for trade confidence scores.
// All functions are stateless and perform no I/O.
package rating

import (
	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// Grade is the letter rating of a composite confidence score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Component names a confidence sub-score
type Component string

const (
	ComponentTrend      Component = "trend_alignment"
	ComponentMomentum   Component = "momentum_confirmation"
	ComponentVolume     Component = "volume_confirmation"
	ComponentVolatility Component = "volatility_context"
	ComponentRegime     Component = "regime_alignment"
	ComponentCatalyst   Component = "catalyst_alignment"
	ComponentHistorical Component = "historical_analog"
	ComponentPersonal   Component = "personal_edge"
)

// ScoreInput is everything the scorer reads for one (ticker, direction, horizon)
type ScoreInput struct {
	Snapshot        signals.IndicatorSnapshot
	Direction       models.Direction
	Horizon         models.Horizon
	Regime          *signals.MarketRegime   // optional, regime component is 50 when nil
	Catalysts       *models.CatalystContext // optional, catalyst component is 50 when nil
	PersonalWinRate *float64                // 0-100, personal component is 50 when nil
}

// ComponentResult is the output of one component scorer
type ComponentResult struct {
	Score     float64 `json:"score"` // 0 to 100
	Reasoning string  `json:"reasoning"`
}

// Factor is one weighted line of the breakdown
type Factor struct {
	Component    Component `json:"component"`
	Score        float64   `json:"score"`
	Weight       float64   `json:"weight"`
	Contribution float64   `json:"contribution"`
	Reasoning    string    `json:"reasoning"`

	raw float64
}

// ConfidenceBreakdown is the output of Score
type ConfidenceBreakdown struct {
	TrendAlignment       float64  `json:"trend_alignment" yaml:"trend_alignment"`
	MomentumConfirmation float64  `json:"momentum_confirmation" yaml:"momentum_confirmation"`
	VolumeConfirmation   float64  `json:"volume_confirmation" yaml:"volume_confirmation"`
	VolatilityContext    float64  `json:"volatility_context" yaml:"volatility_context"`
	RegimeAlignment      float64  `json:"regime_alignment" yaml:"regime_alignment"`
	CatalystAlignment    float64  `json:"catalyst_alignment" yaml:"catalyst_alignment"`
	HistoricalAnalog     float64  `json:"historical_analog" yaml:"historical_analog"`
	PersonalEdge         float64  `json:"personal_edge" yaml:"personal_edge"`
	Composite            float64  `json:"composite" yaml:"composite"` // 0-100, one decimal
	Grade                Grade    `json:"grade" yaml:"grade"`
	Label                string   `json:"label" yaml:"label"`
	Factors              []Factor `json:"factors" yaml:"factors"`
	Reasoning            string   `json:"reasoning" yaml:"reasoning"`
}

// Rating renders the grade with its label, e.g. "A - High Conviction"
func (b *ConfidenceBreakdown) Rating() string {
	return string(b.Grade) + " - " + b.Label
}
