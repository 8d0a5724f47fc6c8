package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
)

// CalculateSMA computes the simple moving average of the trailing period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	out := talib.Sma(values, period)
	return out[len(out)-1], nil
}

// CalculateEMA computes the exponential moving average with smoothing factor
// 2/(period+1) and returns the full series so callers can inspect earlier
// bars. Entries before the warm-up index are zero.
func CalculateEMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(values) < period {
		return nil, errors.New("not enough data for EMA calculation")
	}
	return talib.Ema(values, period), nil
}
