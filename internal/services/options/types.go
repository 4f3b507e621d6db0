// Package options maps a scored trade setup onto one of ten options structures.
// The decision tree is deterministic and performs no pricing.
package options

import "github.com/ternarybob/tradepilot/internal/models"

// Input is the scored setup handed to the selector
type Input struct {
	Horizon        models.Horizon
	Direction      models.Direction
	Confidence     float64          // composite confidence, 0-100
	IVRank         *float64         // 0-100, defaults to 50 when unknown
	DaysToEarnings *int             // nil when no earnings are scheduled
	CatalystRisk   models.EventRisk // defaults to low
}

// Recommendation is the selected structure with narrative guidance
type Recommendation struct {
	Strategy   models.OptionsStrategy `json:"strategy" yaml:"strategy"`
	Rationale  string                 `json:"rationale" yaml:"rationale"`
	Structure  string                 `json:"structure" yaml:"structure"`
	IVRank     float64                `json:"iv_rank" yaml:"iv_rank"`
	Confidence float64                `json:"confidence" yaml:"confidence"`
}
