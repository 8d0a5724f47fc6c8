package screen

import "StockScout/internal/model"

// FundamentalThresholds holds the ratio cutoffs a symbol must clear.
type FundamentalThresholds struct {
	MinMarketCap      float64
	MaxDebtToEquity   float64
	MinROCE           float64
	MinSalesGrowth5Y  float64
	MinProfitGrowth5Y float64
}

// DefaultFundamentalThresholds returns the reference screen: large caps with
// low leverage, high returns on capital and sustained growth.
func DefaultFundamentalThresholds() FundamentalThresholds {
	return FundamentalThresholds{
		MinMarketCap:      500,
		MaxDebtToEquity:   0.2,
		MinROCE:           20,
		MinSalesGrowth5Y:  10,
		MinProfitGrowth5Y: 15,
	}
}

// PassesFundamentals reports whether the record clears every threshold.
// Records the provider could not fully populate never pass.
func PassesFundamentals(r model.FundamentalsRecord, t FundamentalThresholds) bool {
	if !r.Complete {
		return false
	}
	return r.MarketCap > t.MinMarketCap &&
		r.DebtToEquity < t.MaxDebtToEquity &&
		r.ROCE > t.MinROCE &&
		r.SalesGrowth5Y > t.MinSalesGrowth5Y &&
		r.ProfitGrowth5Y > t.MinProfitGrowth5Y
}
