package analysis

import (
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/services/options"
	"github.com/ternarybob/tradepilot/internal/services/rating"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// SessionInput carries the market-wide series for one analysis session.
// Every field is optional.
type SessionInput struct {
	Primary    []models.Bar
	Secondary  []models.Bar
	Volatility []models.Bar
	Sectors    []signals.SectorSeries
	CrossAsset map[string][]models.Bar
	Catalysts  *models.CatalystContext
}

// Session is the shared market context every ticker in a batch is scored against
type Session struct {
	ID         string                    `json:"id" yaml:"id"`
	CreatedAt  time.Time                 `json:"created_at" yaml:"created_at"`
	Regime     *signals.MarketRegime     `json:"regime" yaml:"regime"`
	CrossAsset *signals.CrossAssetReport `json:"cross_asset,omitempty" yaml:"cross_asset,omitempty"`
	Catalysts  *models.CatalystContext   `json:"catalysts,omitempty" yaml:"catalysts,omitempty"`
}

// Request asks for one ticker to be analysed. An empty Direction is inferred
// from the EMA stack, then from the session's market direction.
type Request struct {
	Ticker          string
	Bars            []models.Bar
	Direction       models.Direction
	Horizon         models.Horizon
	IVRank          *float64
	PersonalWinRate *float64
}

// TickerAnalysis is the full result for one ticker
type TickerAnalysis struct {
	Ticker                string                      `json:"ticker" yaml:"ticker"`
	Direction             models.Direction            `json:"direction" yaml:"direction"`
	Horizon               models.Horizon              `json:"horizon" yaml:"horizon"`
	Snapshot              signals.IndicatorSnapshot   `json:"indicators" yaml:"indicators"`
	Confidence            *rating.ConfidenceBreakdown `json:"confidence" yaml:"confidence"`
	Options               *options.Recommendation     `json:"options" yaml:"options"`
	DaysToEarnings        *int                        `json:"days_to_earnings,omitempty" yaml:"days_to_earnings,omitempty"`
	CorrelatedBellwethers []string                    `json:"correlated_bellwethers,omitempty" yaml:"correlated_bellwethers,omitempty"`
}
