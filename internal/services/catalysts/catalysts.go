// Package catalysts holds the static catalyst reference data (bellwether
// earnings links and macro release profiles) and the helpers the analysis
// service uses to read a CatalystContext for a single ticker.
package catalysts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Bellwether describes a ticker whose earnings move a group of related names
type Bellwether struct {
	Sector  string
	Affects []string
}

var bellwethers = map[string]Bellwether{
	"AAPL":  {Sector: "Technology", Affects: []string{"MSFT", "GOOGL", "META", "QQQ"}},
	"MSFT":  {Sector: "Technology", Affects: []string{"AAPL", "GOOGL", "CRM", "QQQ"}},
	"NVDA":  {Sector: "Semiconductors", Affects: []string{"AMD", "SMCI", "AVGO", "MU", "TSM", "SOXX"}},
	"AMZN":  {Sector: "Consumer/Cloud", Affects: []string{"SHOP", "GOOGL", "MSFT", "XLY"}},
	"GOOGL": {Sector: "Technology", Affects: []string{"META", "SNAP", "PINS", "TTD"}},
	"META":  {Sector: "Social/Ads", Affects: []string{"GOOGL", "SNAP", "PINS", "TTD"}},
	"TSLA":  {Sector: "EV/Auto", Affects: []string{"RIVN", "LCID", "NIO", "F", "GM"}},
	"JPM":   {Sector: "Financials", Affects: []string{"BAC", "GS", "MS", "WFC", "XLF"}},
	"GS":    {Sector: "Financials", Affects: []string{"JPM", "MS", "BAC", "XLF"}},
	"WMT":   {Sector: "Consumer Staples", Affects: []string{"TGT", "COST", "KR", "XLP"}},
	"UNH":   {Sector: "Healthcare", Affects: []string{"HUM", "CI", "ELV", "XLV"}},
	"CAT":   {Sector: "Industrials", Affects: []string{"DE", "URI", "XLI"}},
	"XOM":   {Sector: "Energy", Affects: []string{"CVX", "COP", "SLB", "XLE"}},
}

// LookupBellwether returns the bellwether entry for a ticker
func LookupBellwether(ticker string) (Bellwether, bool) {
	b, ok := bellwethers[normalize(ticker)]
	return b, ok
}

// IsBellwether reports whether the ticker is a tracked bellwether
func IsBellwether(ticker string) bool {
	_, ok := LookupBellwether(ticker)
	return ok
}

// CorrelatedBellwethers lists the bellwethers whose earnings affect ticker, sorted
func CorrelatedBellwethers(ticker string) []string {
	ticker = normalize(ticker)
	out := []string{}
	for bell, info := range bellwethers {
		for _, t := range info.Affects {
			if t == ticker {
				out = append(out, bell)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// AssessBaseRisk derives a risk level from the earnings calendar alone.
// Three or more bellwether reports is high, at least one is moderate.
func AssessBaseRisk(earnings []models.EarningsEvent) models.EventRisk {
	count := 0
	for _, e := range earnings {
		if e.IsBellwether || IsBellwether(e.Ticker) {
			count++
		}
	}
	switch {
	case count >= 3:
		return models.EventRiskHigh
	case count >= 1:
		return models.EventRiskModerate
	}
	return models.EventRiskLow
}

// DaysToEarnings returns calendar days from asOf to the ticker's next report
// in the context. Reports dated before asOf are ignored.
func DaysToEarnings(ctx *models.CatalystContext, ticker string, asOf time.Time) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	ticker = normalize(ticker)
	today := truncateDay(asOf)

	best, found := 0, false
	for _, e := range ctx.Earnings {
		if normalize(e.Ticker) != ticker {
			continue
		}
		d := int(truncateDay(e.Date).Sub(today).Hours() / 24)
		if d < 0 {
			continue
		}
		if !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

// Enrich fills bellwether flags and affected tickers on each earnings event
// and sets the overall risk from the calendar when the aggregator left it empty.
// The input is not modified.
func Enrich(ctx *models.CatalystContext) *models.CatalystContext {
	if ctx == nil {
		return nil
	}
	out := *ctx
	out.Earnings = make([]models.EarningsEvent, len(ctx.Earnings))
	for i, e := range ctx.Earnings {
		e.Ticker = normalize(e.Ticker)
		if b, ok := bellwethers[e.Ticker]; ok {
			e.IsBellwether = true
			if len(e.AffectedTickers) == 0 {
				e.AffectedTickers = append([]string(nil), b.Affects...)
			}
		}
		out.Earnings[i] = e
	}
	sort.SliceStable(out.Earnings, func(i, j int) bool {
		return out.Earnings[i].Date.Before(out.Earnings[j].Date)
	})
	if out.OverallEventRisk == "" {
		out.OverallEventRisk = AssessBaseRisk(out.Earnings)
	}
	return &out
}

// MacroProfile is the historical behaviour of a recurring macro release
type MacroProfile struct {
	Frequency     string           `yaml:"frequency" json:"frequency"`
	TypicalImpact models.EventRisk `yaml:"typical_impact" json:"typical_impact"`
	AvgIndexMove  float64          `yaml:"avg_index_move" json:"avg_index_move"`
	Notes         string           `yaml:"notes" json:"notes"`
}

//go:embed profiles.yaml
var profilesYAML []byte

var macroProfiles map[string]MacroProfile

func init() {
	profiles, err := parseProfiles(profilesYAML)
	if err != nil {
		panic(err)
	}
	macroProfiles = profiles
}

func parseProfiles(data []byte) (map[string]MacroProfile, error) {
	var profiles map[string]MacroProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse macro profiles: %w", err)
	}
	for name, p := range profiles {
		if !p.TypicalImpact.IsValid() {
			return nil, fmt.Errorf("%w: macro profile %s impact %q", models.ErrUnknownEnum, name, p.TypicalImpact)
		}
	}
	return profiles, nil
}

// LookupMacroProfile returns the profile for an event name such as "CPI" or "fomc decision"
func LookupMacroProfile(name string) (MacroProfile, bool) {
	key := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(name, "-", " ")), "_"))
	p, ok := macroProfiles[key]
	return p, ok
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
