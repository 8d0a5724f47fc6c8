package risk

import "github.com/shopspring/decimal"

// Profile holds the run-level money management settings. Ratios multiply the
// entry price: a StopRatio of 0.96 places the stop 4% below entry.
type Profile struct {
	Capital      float64
	RiskPerTrade float64
	StopRatio    float64
	TargetRatio  float64
}

// DefaultProfile returns the reference book: 2% of a 100k book risked per
// trade, stop 4% below entry, target 6% above.
func DefaultProfile() Profile {
	return Profile{
		Capital:      100000,
		RiskPerTrade: 0.02,
		StopRatio:    0.96,
		TargetRatio:  1.06,
	}
}

// Levels derives the protective stop and profit target from an entry price.
func (p Profile) Levels(entry float64) (stop, target float64) {
	e := decimal.NewFromFloat(entry)
	stop, _ = e.Mul(decimal.NewFromFloat(p.StopRatio)).Float64()
	target, _ = e.Mul(decimal.NewFromFloat(p.TargetRatio)).Float64()
	return stop, target
}

// SizePosition converts a fixed-fraction risk budget into a whole-share
// quantity: floor(capital * riskPerTrade / |entry - stop|). A zero stop
// distance sizes to zero rather than erroring, and the result is never
// negative.
func SizePosition(capital, riskPerTrade, entry, stop float64) int {
	dist := decimal.NewFromFloat(entry).Sub(decimal.NewFromFloat(stop)).Abs()
	if dist.IsZero() {
		return 0
	}
	budget := decimal.NewFromFloat(capital).Mul(decimal.NewFromFloat(riskPerTrade))
	qty := budget.Div(dist).IntPart()
	if qty < 0 {
		return 0
	}
	return int(qty)
}
