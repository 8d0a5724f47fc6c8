package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockScout/internal/model"
	"StockScout/internal/screen"
)

func barSeries(closes []float64) *model.PriceSeries {
	bars := make([]model.PriceBar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// pullbackCloses dips below the 20 day EMA on the second-to-last bar and
// recovers above it on the last, inside flat-but-positive trend territory.
// The recovery bar also clears the old resistance, so the series satisfies
// the breakout conditions as well.
func pullbackCloses() []float64 {
	closes := rampCloses(220, 100, 0)
	closes[218] = 95
	closes[219] = 106
	return closes
}

// breakoutCloses rises steadily so the close never dips below the fast EMA,
// then jumps past the prior resistance on the final bar.
func breakoutCloses() []float64 {
	closes := rampCloses(220, 100, 0.5)
	closes[219] = closes[218] + 5
	return closes
}

func TestDetectPullback(t *testing.T) {
	assert.True(t, DetectPullback(barSeries(pullbackCloses()), screen.MinHistoryBars))
}

func TestDetectPullback_RequiresUptrend(t *testing.T) {
	// Same dip-and-recover tail, but the series trades below its 200 day average.
	closes := rampCloses(220, 400, -1)
	closes[218] = 100
	closes[219] = 200
	assert.False(t, DetectPullback(barSeries(closes), screen.MinHistoryBars))
}

func TestDetectBreakout(t *testing.T) {
	assert.True(t, DetectBreakout(barSeries(breakoutCloses()), screen.MinHistoryBars))
}

func TestDetectBreakout_ResistanceExcludesRecentBars(t *testing.T) {
	// The spike three bars back must not become its own resistance: the
	// window ends before it, so the final close of 105 still clears 100.
	closes := rampCloses(220, 100, 0)
	closes[217] = 106
	closes[218] = 103
	closes[219] = 105
	assert.True(t, DetectBreakout(barSeries(closes), screen.MinHistoryBars))

	// Below the true resistance there is no breakout.
	closes[219] = 99
	assert.False(t, DetectBreakout(barSeries(closes), screen.MinHistoryBars))
}

func TestDetect_PullbackTakesPriority(t *testing.T) {
	series := barSeries(pullbackCloses())

	// Both setups hold on this series.
	assert.True(t, DetectPullback(series, screen.MinHistoryBars))
	assert.True(t, DetectBreakout(series, screen.MinHistoryBars))

	sig, ok := Detect(series, screen.MinHistoryBars)
	assert.True(t, ok)
	assert.Equal(t, model.SignalPullback, sig)
}

func TestDetect_BreakoutWhenNoPullback(t *testing.T) {
	sig, ok := Detect(barSeries(breakoutCloses()), screen.MinHistoryBars)
	assert.True(t, ok)
	assert.Equal(t, model.SignalBreakout, sig)
}

func TestDetect_NoSignal(t *testing.T) {
	_, ok := Detect(barSeries(rampCloses(220, 100, 0)), screen.MinHistoryBars)
	assert.False(t, ok)
}

func TestDetect_UndersizedSeries(t *testing.T) {
	closes := rampCloses(150, 100, 0)
	closes[148] = 95
	closes[149] = 106
	_, ok := Detect(barSeries(closes), screen.MinHistoryBars)
	assert.False(t, ok)
}
