package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/tradepilot/internal/signals"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig    `toml:"logging"`
	Analysis    AnalysisConfig   `toml:"analysis"`
	Benchmarks  BenchmarkConfig  `toml:"benchmarks"`
	Data        DataConfig       `toml:"data"`
	Sectors     []signals.Sector `toml:"sectors"` // defaults to the SPDR sector proxies when empty
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
	FileName   string   `toml:"file_name"`   // written under ./logs next to the executable
}

// AnalysisConfig tunes the per-ticker analysis pipeline
type AnalysisConfig struct {
	Concurrency   int     `toml:"concurrency"`     // max tickers analysed in parallel
	DefaultIVRank float64 `toml:"default_iv_rank"` // used when no IV rank is supplied
}

// BenchmarkConfig names the session-wide reference series
type BenchmarkConfig struct {
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Volatility string `toml:"volatility"`
}

// DataConfig locates bar files on disk
type DataConfig struct {
	Dir       string `toml:"dir"`       // directory searched for <TICKER>.csv / <TICKER>.json
	Catalysts string `toml:"catalysts"` // optional catalyst context JSON or YAML file
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
			FileName:   "tradepilot.log",
		},
		Analysis: AnalysisConfig{
			Concurrency:   4,
			DefaultIVRank: 50,
		},
		Benchmarks: BenchmarkConfig{
			Primary:    "SPY",
			Secondary:  "QQQ",
			Volatility: "VIX",
		},
		Data: DataConfig{
			Dir: "./data",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if len(config.Sectors) == 0 {
		config.Sectors = signals.DefaultSectors()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRADEPILOT_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("TRADEPILOT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TRADEPILOT_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitString(output, ",")
	}

	// Analysis configuration
	if concurrency := os.Getenv("TRADEPILOT_ANALYSIS_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.Analysis.Concurrency = c
		}
	}
	if ivRank := os.Getenv("TRADEPILOT_DEFAULT_IV_RANK"); ivRank != "" {
		if v, err := strconv.ParseFloat(ivRank, 64); err == nil {
			config.Analysis.DefaultIVRank = v
		}
	}

	// Data configuration
	if dir := os.Getenv("TRADEPILOT_DATA_DIR"); dir != "" {
		config.Data.Dir = dir
	}
	if catalysts := os.Getenv("TRADEPILOT_CATALYSTS"); catalysts != "" {
		config.Data.Catalysts = catalysts
	}
}

// Validate checks ranges that would otherwise surface as confusing runtime errors
func (c *Config) Validate() error {
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("analysis.concurrency must be at least 1, got %d", c.Analysis.Concurrency)
	}
	if c.Analysis.DefaultIVRank < 0 || c.Analysis.DefaultIVRank > 100 {
		return fmt.Errorf("analysis.default_iv_rank must be within 0-100, got %v", c.Analysis.DefaultIVRank)
	}
	for _, s := range c.Sectors {
		if strings.TrimSpace(s.ETF) == "" {
			return fmt.Errorf("sector %q has no etf", s.Name)
		}
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// splitString splits a string by separator and trims whitespace
func splitString(s, sep string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
