package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tradepilot/internal/common"
	"github.com/ternarybob/tradepilot/internal/ingest"
)

var (
	// Persistent flags
	configFiles  []string
	dataDir      string
	outputFormat string
	csvSource    string

	// Global state
	config *common.Config
	logger arbor.ILogger
	loader *ingest.Loader
)

var rootCmd = &cobra.Command{
	Use:   "tradepilot",
	Short: "Technical analysis, confidence scoring and options selection",
	Long: `TradePilot computes indicators from OHLCV bar files, classifies the market
regime, reads intermarket signals, scores trade confidence and maps the result
onto an options structure.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding <TICKER>.csv or <TICKER>.json bar files (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&csvSource, "source", "auto", "CSV export source: auto, thinkorswim, tradingview")

	rootCmd.AddCommand(analyzeCmd, regimeCmd, crossAssetCmd, versionCmd)
}

// setup runs before every command: config, logger, banner, loader
func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("tradepilot.toml"); err == nil {
			configFiles = append(configFiles, "tradepilot.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return err
	}
	if dataDir != "" {
		config.Data.Dir = dataDir
	}
	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	if outputFormat == formatText {
		common.PrintBanner(common.GetVersion())
	}

	source, err := ingest.ParseSource(csvSource)
	if err != nil {
		return err
	}
	loader = ingest.NewLoader(config.Data.Dir, source, logger)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("data_dir", config.Data.Dir).
		Str("log_level", config.Logging.Level).
		Int("concurrency", config.Analysis.Concurrency).
		Msg("Configuration loaded")
	return nil
}

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
