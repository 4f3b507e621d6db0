package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/tradepilot/internal/services/analysis"
	"github.com/ternarybob/tradepilot/internal/signals"
)

var regimeCatalysts string

var regimeCmd = &cobra.Command{
	Use:   "regime",
	Short: "Classify the market regime",
	Long: `Classifies the primary and secondary benchmark indices, the volatility
environment and sector rotation from bar files in the data directory.`,
	Args: cobra.NoArgs,
	RunE: runRegime,
}

func init() {
	regimeCmd.Flags().StringVar(&regimeCatalysts, "catalysts", "", "Catalyst context file (JSON or YAML)")
}

func runRegime(cmd *cobra.Command, args []string) error {
	svc := analysis.NewService(config, logger)
	session, err := buildSession(cmd.Context(), svc, regimeCatalysts, false)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), outputFormat, session, func(w io.Writer) error {
		return writeRegime(w, session.Regime)
	})
}

func writeRegime(w io.Writer, r *signals.MarketRegime) error {
	var b strings.Builder
	fmt.Fprintf(&b, "MARKET REGIME\n")
	fmt.Fprintf(&b, "  Primary:    %s\n", r.PrimaryRegime)
	fmt.Fprintf(&b, "  Secondary:  %s\n", r.SecondaryRegime)
	fmt.Fprintf(&b, "  Direction:  %s\n", r.MarketDirection)
	fmt.Fprintf(&b, "  VIX:        %.2f (%s, %.0fth percentile, %s)\n", r.VIX, r.VolatilityRegime, r.VIXPercentile, r.VIXTermStructure)
	fmt.Fprintf(&b, "  Bias:       %s\n", r.Bias)
	writeSectors(&b, "Leaders", r.SectorLeaders)
	writeSectors(&b, "Laggards", r.SectorLaggards)
	fmt.Fprintf(&b, "\n%s\n", r.Summary)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSectors(b *strings.Builder, title string, rows []signals.SectorRotation) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", title)
	for _, s := range rows {
		fmt.Fprintf(b, "    %-5s %-18s 1W %+6.2f%%  1M %+6.2f%%\n", s.ETF, s.Sector, s.Performance1W, s.Performance1M)
	}
}
