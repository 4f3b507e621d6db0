package models

import (
	"fmt"
	"time"
)

// CatalystType categorises a scheduled event
type CatalystType string

const (
	CatalystMacro        CatalystType = "macro"
	CatalystEarnings     CatalystType = "earnings"
	CatalystGeopolitical CatalystType = "geopolitical"
	CatalystFed          CatalystType = "fed"
	CatalystSector       CatalystType = "sector"
)

// ScheduledEvent is a macro or policy event expected this week
type ScheduledEvent struct {
	Date           time.Time    `json:"date" yaml:"date"`
	Time           string       `json:"time,omitempty" yaml:"time,omitempty"`
	Name           string       `json:"event_name" yaml:"event_name" validate:"required"`
	Category       CatalystType `json:"category" yaml:"category" validate:"omitempty,oneof=macro earnings geopolitical fed sector"`
	ExpectedImpact EventRisk    `json:"expected_impact" yaml:"expected_impact" validate:"required,oneof=low moderate high extreme"`
	Details        string       `json:"details,omitempty" yaml:"details,omitempty"`
	AvgIndexMove   *float64     `json:"historical_avg_move_spy,omitempty" yaml:"historical_avg_move_spy,omitempty"`
}

// EarningsEvent is a scheduled earnings release
type EarningsEvent struct {
	Ticker          string    `json:"ticker" yaml:"ticker" validate:"required"`
	Date            time.Time `json:"date" yaml:"date" validate:"required"`
	Time            string    `json:"time,omitempty" yaml:"time,omitempty"` // BMO or AMC
	ExpectedMove    *float64  `json:"expected_move,omitempty" yaml:"expected_move,omitempty"`
	LastReactions   []float64 `json:"last_4q_reactions,omitempty" yaml:"last_4q_reactions,omitempty"`
	IsBellwether    bool      `json:"is_bellwether" yaml:"is_bellwether"`
	AffectedTickers []string  `json:"affected_tickers,omitempty" yaml:"affected_tickers,omitempty"`
}

// GeopoliticalEvent is an active geopolitical situation
type GeopoliticalEvent struct {
	Name           string            `json:"event_name" yaml:"event_name" validate:"required"`
	Classification string            `json:"classification" yaml:"classification"`
	Status         string            `json:"status" yaml:"status"`
	SectorImpacts  map[string]string `json:"sector_impacts,omitempty" yaml:"sector_impacts,omitempty"`
	RiskLevel      EventRisk         `json:"risk_level" yaml:"risk_level" validate:"omitempty,oneof=low moderate high extreme"`
}

// CatalystContext is the catalyst environment for one session, produced by
// an external aggregator and consumed read-only by the scorers.
type CatalystContext struct {
	Timestamp        time.Time           `json:"timestamp" yaml:"timestamp"`
	MacroEvents      []ScheduledEvent    `json:"macro_events_this_week" yaml:"macro_events_this_week" validate:"dive"`
	Earnings         []EarningsEvent     `json:"earnings_this_week" yaml:"earnings_this_week" validate:"dive"`
	Geopolitical     []GeopoliticalEvent `json:"active_geopolitical" yaml:"active_geopolitical" validate:"dive"`
	OverallEventRisk EventRisk           `json:"overall_event_risk" yaml:"overall_event_risk" validate:"omitempty,oneof=low moderate high extreme"`
	WeekNarrative    string              `json:"week_narrative,omitempty" yaml:"week_narrative,omitempty"`
	PositioningBias  PositioningBias     `json:"positioning_bias,omitempty" yaml:"positioning_bias,omitempty" validate:"omitempty,oneof=risk-on risk-off neutral wait-for-catalyst"`
}

// Validate checks enum fields and required event names
func (c *CatalystContext) Validate() error {
	if c == nil {
		return nil
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: catalyst context: %v", ErrUnknownEnum, err)
	}
	return nil
}

// RiskLevel returns the overall event risk, defaulting to low when unset
func (c *CatalystContext) RiskLevel() EventRisk {
	if c == nil || c.OverallEventRisk == "" {
		return EventRiskLow
	}
	return c.OverallEventRisk
}
