package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/tradepilot/internal/common"
	"github.com/ternarybob/tradepilot/internal/models"
)

// ErrNoData is returned when no bar file exists for a ticker
var ErrNoData = errors.New("no bar file")

// Loader resolves tickers to bar files in a data directory
type Loader struct {
	dir    string
	source Source
	logger arbor.ILogger
}

// NewLoader creates a loader reading <dir>/<TICKER>.csv or .json
func NewLoader(dir string, source Source, logger arbor.ILogger) *Loader {
	return &Loader{dir: dir, source: source, logger: logger}
}

// LoadFile parses a single file, choosing the parser by extension
func (l *Loader) LoadFile(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var bars []models.Bar
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		bars, err = ParseJSON(f)
	case ".csv", ".txt", ".tsv":
		bars, err = ParseCSV(f, l.source)
	default:
		return nil, fmt.Errorf("%w: unsupported bar file %s", models.ErrMalformedInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Debug().Str("path", path).Int("bars", len(bars)).Msg("Loaded bar file")
	return bars, nil
}

// LoadTicker finds and parses the bar file for a ticker. Exchange prefixes
// ("NASDAQ:AAPL") and index carets ("^VIX") are ignored when building file names.
func (l *Loader) LoadTicker(ticker string) ([]models.Bar, error) {
	base := common.NormalizeTicker(ticker)
	if base == "" {
		return nil, fmt.Errorf("%w: empty ticker", models.ErrInvalidInput)
	}
	for _, name := range []string{base, strings.ToLower(base)} {
		for _, ext := range []string{".csv", ".json", ".txt"} {
			path := filepath.Join(l.dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return l.LoadFile(path)
			}
		}
	}
	return nil, fmt.Errorf("%w for %s in %s", ErrNoData, ticker, l.dir)
}

// LoadTickers loads every ticker that has a file. Missing tickers are skipped
// and logged; parse failures abort.
func (l *Loader) LoadTickers(tickers []string) (map[string][]models.Bar, error) {
	out := make(map[string][]models.Bar, len(tickers))
	for _, t := range tickers {
		bars, err := l.LoadTicker(t)
		if errors.Is(err, ErrNoData) {
			l.logger.Debug().Str("ticker", t).Msg("No bar file, skipping")
			continue
		}
		if err != nil {
			return nil, err
		}
		out[common.NormalizeTicker(t)] = bars
	}
	return out, nil
}

// LoadCatalysts reads a catalyst context from a .json, .yaml or .yml file and validates it
func LoadCatalysts(path string) (*models.CatalystContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalysts file %s: %w", path, err)
	}

	var ctx models.CatalystContext
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &ctx)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &ctx)
	default:
		return nil, fmt.Errorf("%w: unsupported catalysts file %s", models.ErrMalformedInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedInput, path, err)
	}
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	return &ctx, nil
}
