package model

// FundamentalsRecord is a per-symbol snapshot of screening ratios.
// Growth rates are 5-year figures in percent, MarketCap is in crores.
type FundamentalsRecord struct {
	Symbol         string
	Sector         string
	MarketCap      float64
	DebtToEquity   float64
	ROCE           float64
	SalesGrowth5Y  float64
	ProfitGrowth5Y float64
	Complete       bool // false when the provider could not fill every ratio
}
