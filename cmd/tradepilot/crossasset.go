package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ternarybob/tradepilot/internal/signals"
)

var crossAssetCmd = &cobra.Command{
	Use:     "crossasset",
	Aliases: []string{"cross-asset"},
	Short:   "Report intermarket signals",
	Long: `Computes metrics for the bond, credit, commodity, dollar and breadth proxies
found in the data directory and reports the intermarket signals they trigger.`,
	Args: cobra.NoArgs,
	RunE: runCrossAsset,
}

func runCrossAsset(cmd *cobra.Command, args []string) error {
	tickers := make([]string, 0, len(signals.Instruments()))
	for _, inst := range signals.Instruments() {
		tickers = append(tickers, inst.Ticker)
	}
	bars, err := loader.LoadTickers(tickers)
	if err != nil {
		return err
	}

	report, err := signals.NewCrossAssetDetector().Analyze(bars)
	if err != nil {
		return err
	}
	logger.Info().Int("instruments", len(report.Instruments)).Int("signals", len(report.Signals)).Msg("Cross-asset analysis complete")

	return render(cmd.OutOrStdout(), outputFormat, report, func(w io.Writer) error {
		_, err := io.WriteString(w, report.Format())
		return err
	})
}
