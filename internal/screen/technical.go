package screen

import (
	"StockScout/internal/calculator"
	"StockScout/internal/model"
)

// MinHistoryBars is the default minimum series length for trend screening,
// a small buffer above the longest moving-average window.
const MinHistoryBars = 210

var trendWindows = [4]int{20, 50, 100, 200}

// PassesTechnicals reports whether the latest close sits strictly above the
// 20, 50, 100 and 200 day simple moving averages. Series shorter than
// minBars fail the screen outright rather than comparing against partial
// averages. A non-positive minBars falls back to MinHistoryBars.
func PassesTechnicals(s *model.PriceSeries, minBars int) bool {
	if minBars <= 0 {
		minBars = MinHistoryBars
	}
	if s == nil || s.Len() < minBars {
		return false
	}

	closes := s.Closes()
	last := closes[len(closes)-1]
	for _, w := range trendWindows {
		sma, err := calculator.CalculateSMA(closes, w)
		if err != nil || last <= sma {
			return false
		}
	}
	return true
}
