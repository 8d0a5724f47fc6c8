package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScout/internal/model"
	"StockScout/internal/regime"
	"StockScout/internal/risk"
	"StockScout/internal/screen"
)

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func barSeries(symbol string, closes []float64) *model.PriceSeries {
	bars := make([]model.PriceBar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: start}
}

// pullbackCloses satisfies the pullback and the breakout conditions at once:
// a dip below the fast EMA followed by a recovery bar that also clears the
// old resistance.
func pullbackCloses() []float64 {
	closes := rampCloses(220, 100, 0)
	closes[218] = 95
	closes[219] = 106
	return closes
}

// breakoutCloses rises steadily (no EMA dip) and jumps past resistance on
// the final bar.
func breakoutCloses() []float64 {
	closes := rampCloses(220, 100, 0.5)
	closes[219] = closes[218] + 5
	return closes
}

func goodRecord(symbol, sector string) model.FundamentalsRecord {
	return model.FundamentalsRecord{
		Symbol:         symbol,
		Sector:         sector,
		MarketCap:      1000,
		DebtToEquity:   0.1,
		ROCE:           25,
		SalesGrowth5Y:  12,
		ProfitGrowth5Y: 18,
		Complete:       true,
	}
}

func failRecord(symbol string) model.FundamentalsRecord {
	r := goodRecord(symbol, "Chemicals")
	r.ROCE = 5
	return r
}

type fakeUniverse struct {
	symbols []string
	err     error
}

func (f *fakeUniverse) Symbols(context.Context) ([]string, error) { return f.symbols, f.err }

type fakeFundamentals struct {
	records map[string]model.FundamentalsRecord
	errs    map[string]error
}

func (f *fakeFundamentals) Fetch(_ context.Context, symbol string) (model.FundamentalsRecord, error) {
	if err, ok := f.errs[symbol]; ok {
		return model.FundamentalsRecord{}, err
	}
	rec, ok := f.records[symbol]
	if !ok {
		return model.FundamentalsRecord{}, errors.New("no record")
	}
	return rec, nil
}

type fakePrices struct {
	series map[string][]float64
	errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakePrices) Series(_ context.Context, symbol string) (*model.PriceSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()

	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	closes, ok := f.series[symbol]
	if !ok {
		return nil, errors.New("no series")
	}
	return barSeries(symbol, closes), nil
}

func bullishMarket() map[string][]float64 {
	return map[string][]float64{
		"NIFTY":    rampCloses(220, 100, 1),
		"INDIAVIX": rampCloses(15, 12, 0),
	}
}

func testConfig() Config {
	return Config{
		IndexSymbol:     "NIFTY",
		VIXSymbol:       "INDIAVIX",
		ExcludedSectors: []string{"Banking", "Finance"},
		Thresholds:      screen.DefaultFundamentalThresholds(),
		MinHistoryBars:  210,
		Risk:            risk.DefaultProfile(),
		Workers:         1,
	}
}

func newTestPipeline(cfg Config, u UniverseProvider, fu FundamentalsProvider, pr SeriesProvider) *Pipeline {
	classifier := regime.NewClassifier(regime.DefaultConfig(), zerolog.Nop())
	return New(cfg, classifier, u, fu, pr, zerolog.Nop())
}

func TestRun_BearishShortCircuit(t *testing.T) {
	prices := &fakePrices{series: map[string][]float64{
		"NIFTY":    rampCloses(220, 400, -1),
		"INDIAVIX": rampCloses(15, 25, 0),
	}}
	// The universe must never be consulted on a bearish day; an error here
	// would otherwise abort the run.
	universe := &fakeUniverse{err: errors.New("must not be consulted")}

	p := newTestPipeline(testConfig(), universe, &fakeFundamentals{}, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RegimeBearish, report.Regime)
	assert.Empty(t, report.Decisions)
	assert.Zero(t, report.Counts.Universe)
}

func TestRun_EndToEndBreakout(t *testing.T) {
	market := bullishMarket()
	market["GOOD"] = breakoutCloses()
	market["BADTECH"] = rampCloses(220, 400, -1)
	prices := &fakePrices{series: market}

	funds := &fakeFundamentals{records: map[string]model.FundamentalsRecord{
		"GOOD":    goodRecord("GOOD", "Chemicals"),
		"BADFUND": failRecord("BADFUND"),
		"BADTECH": goodRecord("BADTECH", "IT"),
	}}
	universe := &fakeUniverse{symbols: []string{"GOOD", "BADFUND", "BADTECH"}}

	p := newTestPipeline(testConfig(), universe, funds, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Decisions, 1)
	dec := report.Decisions[0]
	assert.Equal(t, "GOOD", dec.Symbol)
	assert.Equal(t, model.SignalBreakout, dec.Signal)
	assert.InDelta(t, 214, dec.EntryPrice, 1e-9)
	assert.InDelta(t, 205.44, dec.StopPrice, 1e-9)
	assert.InDelta(t, 226.84, dec.TargetPrice, 1e-9)
	assert.Equal(t, 233, dec.Quantity) // floor(2000 / 8.56)
	assert.Less(t, dec.StopPrice, dec.EntryPrice)
	assert.Greater(t, dec.TargetPrice, dec.EntryPrice)
	assert.NotEmpty(t, dec.ID)
	assert.Equal(t, report.RunID, dec.RunID)

	assert.Equal(t, model.StageCounts{
		Universe:          3,
		FundamentalPassed: 2,
		TechnicalPassed:   1,
		Signals:           1,
	}, report.Counts)

	// Price history is fetched for the market series and fundamental
	// survivors only.
	assert.Equal(t, []string{"NIFTY", "INDIAVIX", "GOOD", "BADTECH"}, prices.calls)
}

func TestRun_OnlyPullbackWhenBothSetupsHold(t *testing.T) {
	market := bullishMarket()
	market["BOTH"] = pullbackCloses()
	prices := &fakePrices{series: market}
	funds := &fakeFundamentals{records: map[string]model.FundamentalsRecord{
		"BOTH": goodRecord("BOTH", "Pharma"),
	}}
	universe := &fakeUniverse{symbols: []string{"BOTH"}}

	p := newTestPipeline(testConfig(), universe, funds, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Decisions, 1)
	assert.Equal(t, model.SignalPullback, report.Decisions[0].Signal)
}

func TestRun_PerSymbolFailuresAbsorbed(t *testing.T) {
	market := bullishMarket()
	market["WINNER"] = pullbackCloses()
	prices := &fakePrices{
		series: market,
		errs:   map[string]error{"NOPRICE": errors.New("timeout")},
	}
	funds := &fakeFundamentals{
		records: map[string]model.FundamentalsRecord{
			"WINNER":  goodRecord("WINNER", "Pharma"),
			"NOPRICE": goodRecord("NOPRICE", "IT"),
		},
		errs: map[string]error{"NOFUND": errors.New("scrape failed")},
	}
	universe := &fakeUniverse{symbols: []string{"NOFUND", "NOPRICE", "WINNER"}}

	p := newTestPipeline(testConfig(), universe, funds, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Decisions, 1)
	assert.Equal(t, "WINNER", report.Decisions[0].Symbol)
	assert.Equal(t, 2, report.Counts.DataErrors)
	assert.Equal(t, 2, report.Counts.FundamentalPassed)
	assert.Equal(t, 1, report.Counts.TechnicalPassed)
}

func TestRun_SectorExclusion(t *testing.T) {
	market := bullishMarket()
	market["WINNER"] = pullbackCloses()
	prices := &fakePrices{series: market}
	funds := &fakeFundamentals{records: map[string]model.FundamentalsRecord{
		"HDFCBANK":   goodRecord("HDFCBANK", "Banking"),
		"BAJFINANCE": goodRecord("BAJFINANCE", "Finance"),
		"WINNER":     goodRecord("WINNER", "Pharma"),
	}}
	universe := &fakeUniverse{symbols: []string{"HDFCBANK", "BAJFINANCE", "WINNER"}}

	p := newTestPipeline(testConfig(), universe, funds, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Counts.SectorExcluded)
	assert.Equal(t, 1, report.Counts.FundamentalPassed)
	require.Len(t, report.Decisions, 1)
	assert.Equal(t, "WINNER", report.Decisions[0].Symbol)

	// Excluded symbols never reach the price provider.
	assert.Equal(t, []string{"NIFTY", "INDIAVIX", "WINNER"}, prices.calls)
}

func TestRun_FatalWhenUniverseUnavailable(t *testing.T) {
	prices := &fakePrices{series: bullishMarket()}
	universe := &fakeUniverse{err: errors.New("catalog down")}

	p := newTestPipeline(testConfig(), universe, &fakeFundamentals{}, prices)
	report, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestRun_FatalWhenIndexUnavailable(t *testing.T) {
	prices := &fakePrices{
		series: map[string][]float64{"INDIAVIX": rampCloses(15, 12, 0)},
		errs:   map[string]error{"NIFTY": errors.New("api down")},
	}
	universe := &fakeUniverse{symbols: []string{"GOOD"}}

	p := newTestPipeline(testConfig(), universe, &fakeFundamentals{}, prices)
	report, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestRun_VIXFailureDegradesToNeutral(t *testing.T) {
	market := map[string][]float64{
		"NIFTY":  rampCloses(220, 100, 1),
		"WINNER": pullbackCloses(),
	}
	prices := &fakePrices{
		series: market,
		errs:   map[string]error{"INDIAVIX": errors.New("no data")},
	}
	funds := &fakeFundamentals{records: map[string]model.FundamentalsRecord{
		"WINNER": goodRecord("WINNER", "Pharma"),
	}}
	universe := &fakeUniverse{symbols: []string{"WINNER"}}

	p := newTestPipeline(testConfig(), universe, funds, prices)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RegimeNeutral, report.Regime)
	require.Len(t, report.Decisions, 1)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	market := bullishMarket()
	market["S1"] = pullbackCloses()
	market["S2"] = breakoutCloses()
	market["S3"] = rampCloses(220, 400, -1)
	market["S4"] = pullbackCloses()
	market["S5"] = rampCloses(220, 100, 0)
	market["S6"] = breakoutCloses()

	records := make(map[string]model.FundamentalsRecord)
	symbols := []string{"S1", "S2", "S3", "S4", "S5", "S6"}
	for _, s := range symbols {
		records[s] = goodRecord(s, "Pharma")
	}
	universe := &fakeUniverse{symbols: symbols}

	run := func(workers int) []model.DecisionRecord {
		cfg := testConfig()
		cfg.Workers = workers
		p := newTestPipeline(cfg, universe, &fakeFundamentals{records: records}, &fakePrices{series: market})
		report, err := p.Run(context.Background())
		require.NoError(t, err)
		return report.Decisions
	}

	sequential := run(1)
	parallel := run(4)

	require.Len(t, sequential, 4)
	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		assert.Equal(t, sequential[i].Symbol, parallel[i].Symbol)
		assert.Equal(t, sequential[i].Signal, parallel[i].Signal)
		assert.Equal(t, sequential[i].Quantity, parallel[i].Quantity)
	}
}
