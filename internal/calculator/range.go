package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
)

// CalculateRollingMax returns the maximum over a window of period values
// ending offset entries before the last one. offset 0 means the window ends
// at the final entry; offset 3 skips the three most recent entries.
func CalculateRollingMax(values []float64, period, offset int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if offset < 0 {
		return 0, errors.New("offset must not be negative")
	}
	end := len(values) - 1 - offset
	if end-period+1 < 0 {
		return 0, errors.New("not enough data for rolling max")
	}
	out := talib.Max(values, period)
	return out[end], nil
}
