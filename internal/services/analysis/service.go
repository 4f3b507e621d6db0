// Package analysis wires the indicator engine, regime classifier, cross-asset
// detector, confidence scorer and options selector into a per-session pipeline.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/tradepilot/internal/common"
	"github.com/ternarybob/tradepilot/internal/models"
	"github.com/ternarybob/tradepilot/internal/services/catalysts"
	"github.com/ternarybob/tradepilot/internal/services/options"
	"github.com/ternarybob/tradepilot/internal/services/rating"
	"github.com/ternarybob/tradepilot/internal/signals"
)

// Service runs analysis sessions
type Service struct {
	config     *common.Config
	logger     arbor.ILogger
	engine     *signals.IndicatorEngine
	classifier *signals.RegimeClassifier
	detector   *signals.CrossAssetDetector
	now        func() time.Time
}

// NewService creates a new analysis service
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	if config == nil {
		config = common.NewDefaultConfig()
	}
	return &Service{
		config:     config,
		logger:     logger,
		engine:     signals.NewIndicatorEngine(),
		classifier: signals.NewRegimeClassifier(),
		detector:   signals.NewCrossAssetDetector(),
		now:        time.Now,
	}
}

// BuildSession classifies the market regime, runs the cross-asset detector
// when instruments are supplied and enriches the catalyst context.
func (s *Service) BuildSession(ctx context.Context, in SessionInput) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := &Session{
		ID:        common.NewSessionID(),
		CreatedAt: s.now().UTC(),
	}
	logger := s.logger.WithCorrelationId(session.ID)

	regime, err := s.classifier.Classify(signals.RegimeInput{
		Primary:    in.Primary,
		Secondary:  in.Secondary,
		Volatility: in.Volatility,
		Sectors:    in.Sectors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify regime: %w", err)
	}
	session.Regime = regime

	if len(in.CrossAsset) > 0 {
		report, err := s.detector.Analyze(in.CrossAsset)
		if err != nil {
			return nil, fmt.Errorf("failed to analyse cross-asset data: %w", err)
		}
		session.CrossAsset = report
	}

	if in.Catalysts != nil {
		if err := in.Catalysts.Validate(); err != nil {
			return nil, err
		}
		session.Catalysts = catalysts.Enrich(in.Catalysts)
	}

	crossSignals := 0
	if session.CrossAsset != nil {
		crossSignals = len(session.CrossAsset.Signals)
	}
	logger.Info().
		Str("primary_regime", string(regime.PrimaryRegime)).
		Str("bias", string(regime.Bias)).
		Str("vix", fmt.Sprintf("%.2f", regime.VIX)).
		Int("cross_asset_signals", crossSignals).
		Msg("Session built")

	return session, nil
}

// Analyze computes indicators, scores confidence and selects an options
// structure for a single ticker. A nil session scores regime and catalyst
// components as neutral.
func (s *Service) Analyze(ctx context.Context, session *Session, req Request) (*TickerAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ticker := common.NormalizeTicker(req.Ticker)
	logger := s.logger
	if session != nil {
		logger = logger.WithCorrelationId(session.ID)
	}

	result, err := s.engine.Compute(ticker, req.Bars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	snapshot := result.Snapshot
	snapshot.IVRank = req.IVRank

	var regime *signals.MarketRegime
	var catalystCtx *models.CatalystContext
	if session != nil {
		regime = session.Regime
		catalystCtx = session.Catalysts
	}

	direction := req.Direction
	if direction == "" {
		if snapshot.EMAStack == nil && regime == nil {
			return nil, fmt.Errorf("%w: %s: %d bars cannot form an EMA stack and no regime to infer direction from",
				models.ErrInsufficientHistory, ticker, len(req.Bars))
		}
		direction = inferDirection(snapshot, regime)
	}
	if !direction.IsDirectional() {
		return nil, fmt.Errorf("%w: %s: no directional bias to score (direction %q)", models.ErrInvalidInput, ticker, direction)
	}

	breakdown, err := rating.Score(rating.ScoreInput{
		Snapshot:        snapshot,
		Direction:       direction,
		Horizon:         req.Horizon,
		Regime:          regime,
		Catalysts:       catalystCtx,
		PersonalWinRate: req.PersonalWinRate,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	analysis := &TickerAnalysis{
		Ticker:                ticker,
		Direction:             direction,
		Horizon:               req.Horizon,
		Snapshot:              snapshot,
		Confidence:            breakdown,
		CorrelatedBellwethers: catalysts.CorrelatedBellwethers(ticker),
	}
	if d, ok := catalysts.DaysToEarnings(catalystCtx, ticker, snapshot.Timestamp); ok {
		analysis.DaysToEarnings = &d
	}

	ivRank := req.IVRank
	if ivRank == nil {
		def := s.config.Analysis.DefaultIVRank
		ivRank = &def
	}
	rec, err := options.Recommend(options.Input{
		Horizon:        req.Horizon,
		Direction:      direction,
		Confidence:     breakdown.Composite,
		IVRank:         ivRank,
		DaysToEarnings: analysis.DaysToEarnings,
		CatalystRisk:   catalystCtx.RiskLevel(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	analysis.Options = rec

	logger.Debug().
		Str("ticker", ticker).
		Str("direction", string(direction)).
		Str("composite", fmt.Sprintf("%.1f", breakdown.Composite)).
		Str("grade", string(breakdown.Grade)).
		Str("strategy", string(rec.Strategy)).
		Msg("Ticker analysed")

	return analysis, nil
}

// AnalyzeBatch analyses requests concurrently, bounded by the configured
// concurrency. Results are returned in request order; the first error cancels
// the remaining work.
func (s *Service) AnalyzeBatch(ctx context.Context, session *Session, reqs []Request) ([]*TickerAnalysis, error) {
	results := make([]*TickerAnalysis, len(reqs))

	limit := s.config.Analysis.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range reqs {
		g.Go(func() (err error) {
			defer common.RecoverToError(s.logger, "analyze "+req.Ticker, &err)
			res, err := s.Analyze(gctx, session, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("tickers", len(reqs)).Msg("Batch analysis complete")
	return results, nil
}

// inferDirection follows the EMA stack, falling back to the market direction
func inferDirection(snap signals.IndicatorSnapshot, regime *signals.MarketRegime) models.Direction {
	if snap.EMAStack != nil {
		switch *snap.EMAStack {
		case signals.StackBullish:
			return models.DirectionBullish
		case signals.StackBearish:
			return models.DirectionBearish
		}
	}
	if regime != nil {
		return regime.MarketDirection
	}
	return models.DirectionNeutral
}
