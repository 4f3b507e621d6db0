package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/services/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER [TICKER...]",
	Short: "Score tickers and recommend an options structure",
	Long: `Loads each ticker's bars from the data directory, computes indicators,
scores confidence against the session regime and catalysts, and selects an
options structure.

Example usage:
  tradepilot analyze AAPL MSFT --horizon swing
  tradepilot analyze NVDA --direction bearish --iv-rank 72 -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeDirection string
	analyzeHorizon   string
	analyzeIVRank    float64
	analyzeWinRate   float64
	analyzeCatalysts string
	analyzeNoSession bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDirection, "direction", "d", "", "bullish or bearish (inferred from the EMA stack when empty)")
	analyzeCmd.Flags().StringVar(&analyzeHorizon, "horizon", "swing", "day_trade or swing")
	analyzeCmd.Flags().Float64Var(&analyzeIVRank, "iv-rank", -1, "Implied volatility rank 0-100 (config default when unset)")
	analyzeCmd.Flags().Float64Var(&analyzeWinRate, "win-rate", -1, "Personal win rate 0-100 for this setup (neutral when unset)")
	analyzeCmd.Flags().StringVar(&analyzeCatalysts, "catalysts", "", "Catalyst context file (JSON or YAML)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSession, "no-session", false, "Skip regime and catalyst context")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	horizon, err := models.ParseHorizon(analyzeHorizon)
	if err != nil {
		return err
	}
	var direction models.Direction
	if analyzeDirection != "" {
		if direction, err = models.ParseDirection(analyzeDirection); err != nil {
			return err
		}
	}

	svc := analysis.NewService(config, logger)
	var session *analysis.Session
	if !analyzeNoSession {
		if session, err = buildSession(cmd.Context(), svc, analyzeCatalysts, false); err != nil {
			return err
		}
	}

	reqs := make([]analysis.Request, len(args))
	for i, ticker := range args {
		bars, err := loader.LoadTicker(ticker)
		if err != nil {
			return err
		}
		reqs[i] = analysis.Request{
			Ticker:          ticker,
			Bars:            bars,
			Direction:       direction,
			Horizon:         horizon,
			IVRank:          optionalFlag(analyzeIVRank),
			PersonalWinRate: optionalFlag(analyzeWinRate),
		}
	}

	results, err := svc.AnalyzeBatch(cmd.Context(), session, reqs)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), outputFormat, results, func(w io.Writer) error {
		for _, r := range results {
			if err := writeAnalysis(w, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// optionalFlag treats negative values as unset
func optionalFlag(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}

func writeAnalysis(w io.Writer, r *analysis.TickerAnalysis) error {
	var b strings.Builder
	s := r.Snapshot
	fmt.Fprintf(&b, "%s  %.2f  (%d bars, %s %s)\n", r.Ticker, s.Price, s.Bars, r.Direction, r.Horizon)
	if s.EMAStack != nil {
		fmt.Fprintf(&b, "  EMA stack:   %s\n", *s.EMAStack)
	}
	if s.RSI14 != nil {
		fmt.Fprintf(&b, "  RSI(14):     %.1f\n", *s.RSI14)
	}
	if s.ADX14 != nil {
		fmt.Fprintf(&b, "  ADX(14):     %.1f (%s)\n", *s.ADX14, *s.ADXTrend)
	}
	if len(s.Patterns) > 0 {
		patterns := make([]string, len(s.Patterns))
		for i, p := range s.Patterns {
			patterns[i] = string(p)
		}
		fmt.Fprintf(&b, "  Patterns:    %s\n", strings.Join(patterns, ", "))
	}

	c := r.Confidence
	fmt.Fprintf(&b, "  Confidence:  %.1f  %s\n", c.Composite, c.Rating())
	for _, f := range c.Factors {
		fmt.Fprintf(&b, "    %-22s %5.1f x %.2f  %s\n", f.Component, f.Score, f.Weight, f.Reasoning)
	}
	if r.DaysToEarnings != nil {
		fmt.Fprintf(&b, "  Earnings in %d day(s)\n", *r.DaysToEarnings)
	}
	if len(r.CorrelatedBellwethers) > 0 {
		fmt.Fprintf(&b, "  Watch bellwethers: %s\n", strings.Join(r.CorrelatedBellwethers, ", "))
	}

	o := r.Options
	fmt.Fprintf(&b, "  Options:     %s (IV rank %.0f)\n", o.Strategy, o.IVRank)
	fmt.Fprintf(&b, "    %s\n    %s\n\n", o.Rationale, o.Structure)

	_, err := io.WriteString(w, b.String())
	return err
}
