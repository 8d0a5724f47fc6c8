package collector

import (
	"context"

	"StockScout/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}
