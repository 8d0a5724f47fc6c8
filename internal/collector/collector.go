package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"StockScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Bars      []model.PriceBar
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.BasePrice, days), nil
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector turns raw fetcher output into validated price series, pacing
// requests so a full universe scan stays polite to the data source.
type Collector struct {
	Fetcher      Fetcher
	LookbackDays int
	limiter      *rate.Limiter
	log          zerolog.Logger
}

// NewCollector creates a new Collector. Non-positive lookbackDays falls back
// to 300 calendar days so 200 bar indicators have headroom; non-positive
// requestsPerSec falls back to 4.
func NewCollector(fetcher Fetcher, lookbackDays int, requestsPerSec float64, log zerolog.Logger) *Collector {
	if lookbackDays <= 0 {
		lookbackDays = 300
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 4
	}
	return &Collector{
		Fetcher:      fetcher,
		LookbackDays: lookbackDays,
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		log:          log.With().Str("component", "collector").Logger(),
	}
}

// Series fetches the lookback window of daily bars for one symbol.
func (c *Collector) Series(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("limiter wait: %w", err)
	}

	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars returned for %s", symbol)
	}

	c.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("Series collected")
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
