package signals

import (
	"fmt"
	"sort"

	"github.com/ternarybob/tradepilot/internal/models"
)

const (
	rotationMinBars = 5
	weekBars        = 4  // close compared with the close four bars earlier
	monthBars       = 20 // or the first bar when the series is shorter
	rotationTop     = 3
)

// Sector identifies a sector proxy ETF
type Sector struct {
	Name string `toml:"name" json:"name" yaml:"name"`
	ETF  string `toml:"etf" json:"etf" yaml:"etf"`
}

// DefaultSectors returns the SPDR sector proxies in enumeration order
func DefaultSectors() []Sector {
	return []Sector{
		{Name: "Technology", ETF: "XLK"},
		{Name: "Healthcare", ETF: "XLV"},
		{Name: "Financials", ETF: "XLF"},
		{Name: "Energy", ETF: "XLE"},
		{Name: "Consumer Disc.", ETF: "XLY"},
		{Name: "Consumer Staples", ETF: "XLP"},
		{Name: "Industrials", ETF: "XLI"},
		{Name: "Materials", ETF: "XLB"},
		{Name: "Real Estate", ETF: "XLRE"},
		{Name: "Utilities", ETF: "XLU"},
		{Name: "Communication", ETF: "XLC"},
	}
}

// SectorSeries pairs a sector with its bars
type SectorSeries struct {
	Sector
	Bars []models.Bar
}

// SectorRotation is one sector's recent performance
type SectorRotation struct {
	Sector           string   `json:"sector" yaml:"sector"`
	ETF              string   `json:"etf" yaml:"etf"`
	Performance1W    float64  `json:"performance_1w" yaml:"performance_1w"`
	Performance1M    float64  `json:"performance_1m" yaml:"performance_1m"`
	RelativeStrength *float64 `json:"relative_strength" yaml:"relative_strength"` // vs the primary index 1W return
}

// RotationResult is the ranked sector table
type RotationResult struct {
	Sectors  []SectorRotation `json:"sectors"`
	Leaders  []SectorRotation `json:"leaders"`
	Laggards []SectorRotation `json:"laggards"`
}

// RotationComputer ranks sectors by one-week return
type RotationComputer struct{}

// NewRotationComputer creates a new rotation computer
func NewRotationComputer() *RotationComputer {
	return &RotationComputer{}
}

// Compute ranks every sector with at least five bars. Sectors with fewer
// bars are excluded. Ties keep enumeration order in both lists.
func (c *RotationComputer) Compute(primary []models.Bar, sectors []SectorSeries) (*RotationResult, error) {
	var benchmark *float64
	if len(primary) >= rotationMinBars {
		b := weekReturn(models.Closes(primary))
		benchmark = &b
	}

	result := &RotationResult{Sectors: []SectorRotation{}}
	for _, sec := range sectors {
		if len(sec.Bars) < rotationMinBars {
			continue
		}
		if err := models.ValidateBars(sec.Bars); err != nil {
			return nil, fmt.Errorf("sector %s: %w", sec.ETF, err)
		}
		closes := models.Closes(sec.Bars)
		perf1W := weekReturn(closes)
		row := SectorRotation{
			Sector:        sec.Name,
			ETF:           sec.ETF,
			Performance1W: round(perf1W, 2),
			Performance1M: round(monthReturn(closes), 2),
		}
		if benchmark != nil {
			rs := round(perf1W-*benchmark, 2)
			row.RelativeStrength = &rs
		}
		result.Sectors = append(result.Sectors, row)
	}

	leaders := make([]SectorRotation, len(result.Sectors))
	copy(leaders, result.Sectors)
	sort.SliceStable(leaders, func(i, j int) bool {
		return leaders[i].Performance1W > leaders[j].Performance1W
	})

	laggards := make([]SectorRotation, len(result.Sectors))
	copy(laggards, result.Sectors)
	sort.SliceStable(laggards, func(i, j int) bool {
		return laggards[i].Performance1W < laggards[j].Performance1W
	})

	result.Leaders = leaders[:minInt(rotationTop, len(leaders))]
	result.Laggards = laggards[:minInt(rotationTop, len(laggards))]
	return result, nil
}

func weekReturn(closes []float64) float64 {
	n := len(closes)
	return pctChange(closes[n-1-weekBars], closes[n-1])
}

func monthReturn(closes []float64) float64 {
	n := len(closes)
	start := n - 1 - monthBars
	if start < 0 {
		start = 0
	}
	return pctChange(closes[start], closes[n-1])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
