package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/tradepilot/internal/ingest"
	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/services/analysis"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// loadOptional returns nil bars when the ticker has no file
func loadOptional(ticker string) ([]models.Bar, error) {
	if ticker == "" {
		return nil, nil
	}
	bars, err := loader.LoadTicker(ticker)
	if errors.Is(err, ingest.ErrNoData) {
		logger.Warn().Str("ticker", ticker).Msg("No bar file found, continuing without it")
		return nil, nil
	}
	return bars, err
}

// buildSession loads the benchmark, sector and cross-asset files from the
// data directory and classifies the session
func buildSession(ctx context.Context, svc *analysis.Service, catalystsPath string, withCrossAsset bool) (*analysis.Session, error) {
	var in analysis.SessionInput
	var err error

	if in.Primary, err = loadOptional(config.Benchmarks.Primary); err != nil {
		return nil, err
	}
	if in.Secondary, err = loadOptional(config.Benchmarks.Secondary); err != nil {
		return nil, err
	}
	if in.Volatility, err = loadOptional(config.Benchmarks.Volatility); err != nil {
		return nil, err
	}

	etfs := make([]string, len(config.Sectors))
	for i, s := range config.Sectors {
		etfs[i] = s.ETF
	}
	sectorBars, err := loader.LoadTickers(etfs)
	if err != nil {
		return nil, err
	}
	for _, s := range config.Sectors {
		if bars, ok := sectorBars[s.ETF]; ok {
			in.Sectors = append(in.Sectors, signals.SectorSeries{Sector: s, Bars: bars})
		}
	}

	if withCrossAsset {
		instruments := signals.Instruments()
		tickers := make([]string, len(instruments))
		for i, inst := range instruments {
			tickers[i] = inst.Ticker
		}
		if in.CrossAsset, err = loader.LoadTickers(tickers); err != nil {
			return nil, err
		}
	}

	if catalystsPath == "" {
		catalystsPath = config.Data.Catalysts
	}
	if catalystsPath != "" {
		if in.Catalysts, err = ingest.LoadCatalysts(catalystsPath); err != nil {
			return nil, fmt.Errorf("failed to load catalysts: %w", err)
		}
	}

	return svc.BuildSession(ctx, in)
}
