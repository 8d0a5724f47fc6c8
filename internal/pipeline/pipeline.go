package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StockScout/internal/model"
	"StockScout/internal/regime"
	"StockScout/internal/risk"
	"StockScout/internal/screen"
	"StockScout/internal/signal"
)

// UniverseProvider supplies the candidate symbols for a run.
type UniverseProvider interface {
	Symbols(ctx context.Context) ([]string, error)
}

// FundamentalsProvider supplies screening ratios per symbol.
type FundamentalsProvider interface {
	Fetch(ctx context.Context, symbol string) (model.FundamentalsRecord, error)
}

// SeriesProvider supplies daily price history per symbol.
type SeriesProvider interface {
	Series(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Config holds the run-level screening knobs.
type Config struct {
	IndexSymbol     string
	VIXSymbol       string
	ExcludedSectors []string
	Thresholds      screen.FundamentalThresholds
	MinHistoryBars  int
	Risk            risk.Profile
	Workers         int
}

// Pipeline runs the daily screen: regime gate, sector exclusion, fundamental
// and technical filters, then signal detection and position sizing.
type Pipeline struct {
	cfg        Config
	classifier *regime.Classifier
	universe   UniverseProvider
	funds      FundamentalsProvider
	prices     SeriesProvider
	excluded   map[string]struct{}
	log        zerolog.Logger
}

// New creates a Pipeline. Workers bounds the per-symbol fan-out; values
// below 1 make the screens run sequentially.
func New(cfg Config, classifier *regime.Classifier, universe UniverseProvider,
	funds FundamentalsProvider, prices SeriesProvider, log zerolog.Logger) *Pipeline {

	if cfg.MinHistoryBars <= 0 {
		cfg.MinHistoryBars = screen.MinHistoryBars
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	excluded := make(map[string]struct{}, len(cfg.ExcludedSectors))
	for _, s := range cfg.ExcludedSectors {
		excluded[s] = struct{}{}
	}
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		universe:   universe,
		funds:      funds,
		prices:     prices,
		excluded:   excluded,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one full screening pass. The returned error is fatal only:
// the index series or the universe could not be obtained at all. Per-symbol
// problems drop the symbol and surface through the report's stage counts.
func (p *Pipeline) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := p.log.With().Str("run_id", report.RunID).Logger()

	indexSeries, err := p.prices.Series(ctx, p.cfg.IndexSymbol)
	if err != nil {
		return nil, fmt.Errorf("fetch index series %s: %w", p.cfg.IndexSymbol, err)
	}
	var vixCloses []float64
	if vixSeries, err := p.prices.Series(ctx, p.cfg.VIXSymbol); err != nil {
		// The classifier treats missing volatility history as Neutral.
		log.Warn().Err(err).Str("symbol", p.cfg.VIXSymbol).Msg("Volatility series unavailable")
	} else {
		vixCloses = vixSeries.Closes()
	}

	report.Regime = p.classifier.Classify(indexSeries.Closes(), vixCloses)
	if report.Regime == model.RegimeBearish {
		log.Info().Msg("Bearish regime, skipping screens")
		report.FinishedAt = time.Now()
		return report, nil
	}

	symbols, err := p.universe.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	report.Counts.Universe = len(symbols)

	survivors := p.fundamentalScreen(ctx, symbols, &report.Counts, log)
	report.Decisions = p.scanSurvivors(ctx, report.RunID, survivors, &report.Counts, log)
	report.Counts.Signals = len(report.Decisions)
	report.FinishedAt = time.Now()

	log.Info().
		Str("regime", string(report.Regime)).
		Int("universe", report.Counts.Universe).
		Int("sector_excluded", report.Counts.SectorExcluded).
		Int("data_errors", report.Counts.DataErrors).
		Int("fundamental_passed", report.Counts.FundamentalPassed).
		Int("technical_passed", report.Counts.TechnicalPassed).
		Int("signals", report.Counts.Signals).
		Msg("Screening run finished")
	return report, nil
}

type fundamentalOutcome struct {
	symbol   string
	excluded bool
	passed   bool
	err      error
}

// fundamentalScreen drops excluded sectors and applies the ratio filter,
// returning survivors in universe order.
func (p *Pipeline) fundamentalScreen(ctx context.Context, symbols []string,
	counts *model.StageCounts, log zerolog.Logger) []string {

	outcomes := make([]fundamentalOutcome, len(symbols))
	p.forEach(len(symbols), func(i int) {
		out := fundamentalOutcome{symbol: symbols[i]}
		rec, err := p.funds.Fetch(ctx, symbols[i])
		if err != nil {
			out.err = err
		} else if _, banned := p.excluded[rec.Sector]; banned {
			out.excluded = true
		} else {
			out.passed = screen.PassesFundamentals(rec, p.cfg.Thresholds)
		}
		outcomes[i] = out
	})

	survivors := make([]string, 0, len(symbols))
	for _, out := range outcomes {
		switch {
		case out.err != nil:
			counts.DataErrors++
			log.Debug().Err(out.err).Str("symbol", out.symbol).
				Msg("Symbol dropped, fundamentals unavailable")
		case out.excluded:
			counts.SectorExcluded++
		case out.passed:
			survivors = append(survivors, out.symbol)
		}
	}
	counts.FundamentalPassed = len(survivors)
	return survivors
}

type scanOutcome struct {
	symbol     string
	passedTech bool
	decision   *model.DecisionRecord
	err        error
}

// scanSurvivors fetches price history for the fundamental survivors, applies
// the trend screen, and turns detected entry signals into sized decisions.
func (p *Pipeline) scanSurvivors(ctx context.Context, runID string, symbols []string,
	counts *model.StageCounts, log zerolog.Logger) []model.DecisionRecord {

	outcomes := make([]scanOutcome, len(symbols))
	p.forEach(len(symbols), func(i int) {
		out := scanOutcome{symbol: symbols[i]}
		series, err := p.prices.Series(ctx, symbols[i])
		if err != nil {
			out.err = err
		} else if screen.PassesTechnicals(series, p.cfg.MinHistoryBars) {
			out.passedTech = true
			if sig, ok := signal.Detect(series, p.cfg.MinHistoryBars); ok {
				out.decision = p.buildDecision(runID, symbols[i], sig, series)
			}
		}
		outcomes[i] = out
	})

	var decisions []model.DecisionRecord
	for _, out := range outcomes {
		switch {
		case out.err != nil:
			counts.DataErrors++
			log.Debug().Err(out.err).Str("symbol", out.symbol).
				Msg("Symbol dropped, price history unavailable")
		case out.passedTech:
			counts.TechnicalPassed++
			if out.decision != nil {
				decisions = append(decisions, *out.decision)
			}
		}
	}
	return decisions
}

func (p *Pipeline) buildDecision(runID, symbol string, sig model.SignalType, series *model.PriceSeries) *model.DecisionRecord {
	entry := series.LastClose()
	stop, target := p.cfg.Risk.Levels(entry)
	return &model.DecisionRecord{
		ID:          uuid.NewString(),
		RunID:       runID,
		Symbol:      symbol,
		Signal:      sig,
		EntryPrice:  entry,
		StopPrice:   stop,
		TargetPrice: target,
		Quantity:    risk.SizePosition(p.cfg.Risk.Capital, p.cfg.Risk.RiskPerTrade, entry, stop),
		CreatedAt:   time.Now(),
	}
}

// forEach runs fn for every index with at most cfg.Workers calls in flight.
// Results land in caller-owned slots, so no locks are needed and the merge
// order stays the input order.
func (p *Pipeline) forEach(n int, fn func(i int)) {
	if p.cfg.Workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
