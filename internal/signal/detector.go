package signal

import (
	"StockScout/internal/calculator"
	"StockScout/internal/model"
	"StockScout/internal/screen"
)

const (
	emaPeriod   = 20
	trendPeriod = 200

	// Resistance is the highest close of the 7 bars preceding the most
	// recent 3, so the breakout bar never serves as its own reference.
	resistanceWindow = 7
	resistanceSkip   = 3
)

// DetectPullback reports whether the close crossed from below to above the
// 20 day EMA on the latest bar while holding above the 200 day average.
// Undersized series yield no signal, not an error.
func DetectPullback(s *model.PriceSeries, minBars int) bool {
	if minBars <= 0 {
		minBars = screen.MinHistoryBars
	}
	if s == nil || s.Len() < minBars {
		return false
	}

	closes := s.Closes()
	n := len(closes)
	sma, err := calculator.CalculateSMA(closes, trendPeriod)
	if err != nil {
		return false
	}
	if closes[n-1] <= sma {
		return false
	}
	ema, err := calculator.CalculateEMA(closes, emaPeriod)
	if err != nil {
		return false
	}
	return closes[n-2] < ema[n-2] && closes[n-1] > ema[n-1]
}

// DetectBreakout reports whether the latest bar closed above the recent
// resistance level on both close and high.
func DetectBreakout(s *model.PriceSeries, minBars int) bool {
	if minBars <= 0 {
		minBars = screen.MinHistoryBars
	}
	if s == nil || s.Len() < minBars {
		return false
	}

	resistance, err := calculator.CalculateRollingMax(s.Closes(), resistanceWindow, resistanceSkip)
	if err != nil {
		return false
	}
	return s.LastClose() > resistance && s.LastHigh() > resistance
}

// Detect evaluates pullback first and breakout second, returning at most one
// signal per series. The order is a priority policy: when both setups hold on
// the same bar only the pullback is reported.
func Detect(s *model.PriceSeries, minBars int) (model.SignalType, bool) {
	if DetectPullback(s, minBars) {
		return model.SignalPullback, true
	}
	if DetectBreakout(s, minBars) {
		return model.SignalBreakout, true
	}
	return "", false
}
