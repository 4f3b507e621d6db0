package signals

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Severity grades a cross-asset signal
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Cross-asset signal names
const (
	SignalYieldCurveSteepening = "YIELD CURVE STEEPENING"
	SignalYieldCurveFlattening = "YIELD CURVE FLATTENING/INVERSION PRESSURE"
	SignalFlightToQuality      = "CREDIT STRESS: FLIGHT TO QUALITY"
	SignalBroadCreditSelloff   = "BROAD CREDIT SELLOFF"
	SignalRiskOff              = "RISK-OFF: TREASURIES OVER CREDIT"
	SignalRiskOn               = "RISK-ON: CREDIT OVER TREASURIES"
	SignalGoldBreakout         = "GOLD BREAKOUT — FEAR/INFLATION BID"
	SignalGoldSelloff          = "GOLD SELLOFF — RISK-ON OR DOLLAR STRENGTH"
	SignalDollarStrengthening  = "DOLLAR STRENGTHENING"
	SignalDollarWeakening      = "DOLLAR WEAKENING"
	SignalBreadthDeterioration = "BREADTH DETERIORATION — SMALL CAPS LEADING DOWN"
	SignalBroadParticipation   = "BROAD PARTICIPATION — HEALTHY BREADTH"
	SignalOilSpike             = "OIL SPIKE — INFLATION/GEOPOLITICAL RISK"
	SignalOilDecline           = "OIL DECLINE — DEMAND DESTRUCTION FEAR"
)

// Rule thresholds, percent moves
const (
	yieldCurveSpreadThreshold = 2.0
	creditSpreadThreshold     = 1.0
	creditHYGSelloff          = -1.0
	creditLQDSelloff          = -0.5
	riskAppetiteThreshold     = 2.0
	goldThreshold             = 2.0
	goldDollarWeakness        = -0.5
	goldBondRally             = 1.0
	dollarThreshold           = 1.0
	breadthDeteriorationIWM   = -2.0
	breadthParticipationIWM   = 1.5
	breadthParticipationRSP   = 0.5
	oilThreshold              = 3.0
)

// CrossAssetSignal is one intermarket finding with the values that triggered it
type CrossAssetSignal struct {
	Signal   string             `json:"signal" yaml:"signal"`
	Severity Severity           `json:"severity" yaml:"severity"`
	Detail   string             `json:"detail" yaml:"detail"`
	Deltas   map[string]float64 `json:"deltas" yaml:"deltas"`
}

// CrossAssetDetector evaluates the intermarket rule families.
// Each family checks its instruments are present and otherwise stays silent.
type CrossAssetDetector struct{}

// NewCrossAssetDetector creates a new detector
func NewCrossAssetDetector() *CrossAssetDetector {
	return &CrossAssetDetector{}
}

// Detect runs all seven rule families in a fixed order
func (d *CrossAssetDetector) Detect(instruments map[string]InstrumentMetrics) []CrossAssetSignal {
	get := func(ticker string) *InstrumentMetrics {
		if m, ok := instruments[ticker]; ok {
			return &m
		}
		return nil
	}
	tlt, shy := get("TLT"), get("SHY")
	hyg, lqd := get("HYG"), get("LQD")
	gld, uup, uso := get("GLD"), get("UUP"), get("USO")
	iwm, rsp := get("IWM"), get("RSP")

	signals := []CrossAssetSignal{}
	for _, rule := range []func() *CrossAssetSignal{
		func() *CrossAssetSignal { return yieldCurveSignal(tlt, shy) },
		func() *CrossAssetSignal { return creditSignal(hyg, lqd) },
		func() *CrossAssetSignal { return riskAppetiteSignal(hyg, tlt) },
		func() *CrossAssetSignal { return goldSignal(gld, uup, tlt) },
		func() *CrossAssetSignal { return dollarSignal(uup) },
		func() *CrossAssetSignal { return breadthSignal(iwm, rsp) },
		func() *CrossAssetSignal { return oilSignal(uso) },
	} {
		if s := rule(); s != nil {
			signals = append(signals, *s)
		}
	}
	return signals
}

// yieldCurveSignal compares long and short treasury 1M moves
func yieldCurveSignal(tlt, shy *InstrumentMetrics) *CrossAssetSignal {
	if tlt == nil || shy == nil || tlt.Change1M == nil || shy.Change1M == nil {
		return nil
	}
	tlt1M, shy1M := *tlt.Change1M, *shy.Change1M
	spread := tlt1M - shy1M
	deltas := map[string]float64{"TLT_1M": tlt1M, "SHY_1M": shy1M, "spread": spread}

	switch {
	case spread > yieldCurveSpreadThreshold:
		return &CrossAssetSignal{
			Signal:   SignalYieldCurveSteepening,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("TLT %+.1f%% vs SHY %+.1f%% (1M). Long end rallying faster, market pricing rate cuts or recession. Favors defensives, hurts financials.",
				tlt1M, shy1M),
			Deltas: deltas,
		}
	case spread < -yieldCurveSpreadThreshold:
		return &CrossAssetSignal{
			Signal:   SignalYieldCurveFlattening,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("SHY outperforming TLT by %.1f%% (1M). Short rates sticky while the long end sells. Hawkish repricing or inflation fears.",
				math.Abs(spread)),
			Deltas: deltas,
		}
	}
	return nil
}

// creditSignal checks investment grade vs high yield. Flight to quality
// takes precedence over a broad selloff.
func creditSignal(hyg, lqd *InstrumentMetrics) *CrossAssetSignal {
	if hyg == nil || lqd == nil {
		return nil
	}
	hyg1W, lqd1W := hyg.Change1W, lqd.Change1W
	spread := lqd1W - hyg1W
	deltas := map[string]float64{"HYG_1W": hyg1W, "LQD_1W": lqd1W, "spread": spread}

	switch {
	case spread > creditSpreadThreshold:
		return &CrossAssetSignal{
			Signal:   SignalFlightToQuality,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("LQD %+.1f%% vs HYG %+.1f%% (1W). Investment grade outperforming junk, credit risk rising. Watch for equity spillover.",
				lqd1W, hyg1W),
			Deltas: deltas,
		}
	case hyg1W < creditHYGSelloff && lqd1W < creditLQDSelloff:
		return &CrossAssetSignal{
			Signal:   SignalBroadCreditSelloff,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("HYG %+.1f%% and LQD %+.1f%% (1W), both declining. Rate-driven selloff or risk-off repricing.",
				hyg1W, lqd1W),
			Deltas: deltas,
		}
	}
	return nil
}

// riskAppetiteSignal compares high yield credit with long treasuries
func riskAppetiteSignal(hyg, tlt *InstrumentMetrics) *CrossAssetSignal {
	if hyg == nil || tlt == nil {
		return nil
	}
	spread := hyg.Change1W - tlt.Change1W
	deltas := map[string]float64{"HYG_1W": hyg.Change1W, "TLT_1W": tlt.Change1W, "spread": spread}

	switch {
	case spread < -riskAppetiteThreshold:
		return &CrossAssetSignal{
			Signal:   SignalRiskOff,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("TLT %+.1f%% vs HYG %+.1f%% (1W). Classic flight to safety.",
				tlt.Change1W, hyg.Change1W),
			Deltas: deltas,
		}
	case spread > riskAppetiteThreshold:
		return &CrossAssetSignal{
			Signal:   SignalRiskOn,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("HYG %+.1f%% vs TLT %+.1f%% (1W). Risk appetite returning. Supports cyclical longs and high-beta plays.",
				hyg.Change1W, tlt.Change1W),
			Deltas: deltas,
		}
	}
	return nil
}

// goldSignal attributes a gold breakout to dollar weakness or a bond rally when those moves are present
func goldSignal(gld, uup, tlt *InstrumentMetrics) *CrossAssetSignal {
	if gld == nil {
		return nil
	}
	deltas := map[string]float64{"GLD_1W": gld.Change1W}

	switch {
	case gld.Change1W > goldThreshold:
		var reasons []string
		if uup != nil && uup.Change1W < goldDollarWeakness {
			reasons = append(reasons, "dollar weakness")
			deltas["UUP_1W"] = uup.Change1W
		}
		if tlt != nil && tlt.Change1W > goldBondRally {
			reasons = append(reasons, "bond rally")
			deltas["TLT_1W"] = tlt.Change1W
		}
		drivers := ""
		if len(reasons) > 0 {
			drivers = fmt.Sprintf(" (driven by: %s)", strings.Join(reasons, ", "))
		}
		return &CrossAssetSignal{
			Signal:   SignalGoldBreakout,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("GLD %+.1f%% (1W), RSI %s%s. Fear or inflation bid. Favors miners.",
				gld.Change1W, formatOptional(gld.RSI14, 1), drivers),
			Deltas: deltas,
		}
	case gld.Change1W < -goldThreshold:
		return &CrossAssetSignal{
			Signal:   SignalGoldSelloff,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("GLD %+.1f%% (1W). Gold selling off suggests aggressive risk-on rotation or a dollar surge. Check UUP for confirmation.",
				gld.Change1W),
			Deltas: deltas,
		}
	}
	return nil
}

func dollarSignal(uup *InstrumentMetrics) *CrossAssetSignal {
	if uup == nil {
		return nil
	}
	deltas := map[string]float64{"UUP_1W": uup.Change1W}

	switch {
	case uup.Change1W > dollarThreshold:
		return &CrossAssetSignal{
			Signal:   SignalDollarStrengthening,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("UUP %+.1f%% (1W), trend: %s. Strong dollar headwind for multinationals, commodities and EM.",
				uup.Change1W, uup.Trend),
			Deltas: deltas,
		}
	case uup.Change1W < -dollarThreshold:
		return &CrossAssetSignal{
			Signal:   SignalDollarWeakening,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("UUP %+.1f%% (1W). Weak dollar tailwind for commodities and multinationals. If sustained, supports risk-on rotation.",
				uup.Change1W),
			Deltas: deltas,
		}
	}
	return nil
}

// breadthSignal uses small caps and equal weight as breadth proxies
func breadthSignal(iwm, rsp *InstrumentMetrics) *CrossAssetSignal {
	if iwm == nil || rsp == nil {
		return nil
	}
	deltas := map[string]float64{"IWM_1W": iwm.Change1W, "RSP_1W": rsp.Change1W}

	switch {
	case iwm.Change1W < breadthDeteriorationIWM && rsp.Change1W < iwm.Change1W:
		return &CrossAssetSignal{
			Signal:   SignalBreadthDeterioration,
			Severity: SeverityHigh,
			Detail: fmt.Sprintf("IWM %+.1f%%, RSP %+.1f%% (1W). Small caps and equal weight both weak. Narrow leadership makes a fragile market.",
				iwm.Change1W, rsp.Change1W),
			Deltas: deltas,
		}
	case iwm.Change1W > breadthParticipationIWM && rsp.Change1W > breadthParticipationRSP:
		return &CrossAssetSignal{
			Signal:   SignalBroadParticipation,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("IWM %+.1f%%, RSP %+.1f%% (1W). Small caps and equal weight participating. Broad rally supports breakout attempts.",
				iwm.Change1W, rsp.Change1W),
			Deltas: deltas,
		}
	}
	return nil
}

func oilSignal(uso *InstrumentMetrics) *CrossAssetSignal {
	if uso == nil {
		return nil
	}
	deltas := map[string]float64{"USO_1W": uso.Change1W}

	switch {
	case uso.Change1W > oilThreshold:
		return &CrossAssetSignal{
			Signal:   SignalOilSpike,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("USO %+.1f%% (1W), RSI %s. Oil spike raises input costs. Negative for transports and consumer discretionary, positive for energy.",
				uso.Change1W, formatOptional(uso.RSI14, 1)),
			Deltas: deltas,
		}
	case uso.Change1W < -oilThreshold:
		return &CrossAssetSignal{
			Signal:   SignalOilDecline,
			Severity: SeverityMedium,
			Detail: fmt.Sprintf("USO %+.1f%% (1W). Sharp decline signals demand destruction fears or geopolitical de-escalation.",
				uso.Change1W),
			Deltas: deltas,
		}
	}
	return nil
}

func formatOptional(v *float64, places int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

// CrossAssetReport is the per-session intermarket view
type CrossAssetReport struct {
	Instruments map[string]InstrumentMetrics `json:"instruments" yaml:"instruments"`
	Signals     []CrossAssetSignal           `json:"signals" yaml:"signals"`
}

// Analyze computes metrics for every supplied instrument and runs the detector.
// Instruments with too little history are left out.
func (d *CrossAssetDetector) Analyze(bars map[string][]models.Bar) (*CrossAssetReport, error) {
	report := &CrossAssetReport{Instruments: make(map[string]InstrumentMetrics)}

	tickers := make([]string, 0, len(bars))
	for t := range bars {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, t := range tickers {
		m, err := ComputeInstrumentMetrics(t, bars[t])
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		report.Instruments[m.Ticker] = *m
	}
	report.Signals = d.Detect(report.Instruments)
	return report, nil
}

// Format renders the report as a plain text block grouped by category
func (r *CrossAssetReport) Format() string {
	var b strings.Builder
	b.WriteString("CROSS-ASSET MARKET DATA\n")
	for _, cat := range instrumentCategories {
		var rows []InstrumentMetrics
		for _, inst := range Instruments() {
			if m, ok := r.Instruments[inst.Ticker]; ok && inst.Category == cat.key {
				rows = append(rows, m)
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s:\n", cat.label)
		for _, m := range rows {
			change1M := "n/a"
			if m.Change1M != nil {
				change1M = fmt.Sprintf("%+.1f%%", *m.Change1M)
			}
			fmt.Fprintf(&b, "    %s (%s): $%.2f %s | 1D: %+.1f%% | 1W: %+.1f%% | 1M: %s | RSI: %s | 52W: %+.1f%% from low, %+.1f%% from high\n",
				m.Ticker, m.Name, m.Price, m.Trend, m.Change1D, m.Change1W, change1M,
				formatOptional(m.RSI14, 1), m.PctFrom52WLow, m.PctFrom52WHigh)
		}
	}
	if len(r.Signals) > 0 {
		b.WriteString("  INTERMARKET SIGNALS:\n")
		for _, s := range r.Signals {
			fmt.Fprintf(&b, "    [%s] %s\n      %s\n", strings.ToUpper(string(s.Severity)), s.Signal, s.Detail)
		}
	}
	return b.String()
}
