package notifier

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockScout/internal/model"
)

func TestFormatRegime(t *testing.T) {
	assert.Equal(t, "📊 Market Regime: <b>Bullish</b>", FormatRegime(model.RegimeBullish))
	assert.Equal(t, "📊 Market Regime: <b>Bearish</b>", FormatRegime(model.RegimeBearish))
}

func TestFormatDecision(t *testing.T) {
	pullback := &model.DecisionRecord{
		Symbol:      "RELIANCE",
		Signal:      model.SignalPullback,
		EntryPrice:  2850.5,
		StopPrice:   2736.48,
		TargetPrice: 3021.53,
		Quantity:    17,
		CreatedAt:   time.Now(),
	}
	msg := FormatDecision(pullback)
	assert.Equal(t, "📥 Pullback in <b>RELIANCE</b>: Buy 17 @ ₹2850.50, SL ₹2736.48, Target ₹3021.53", msg)

	breakout := *pullback
	breakout.Signal = model.SignalBreakout
	assert.Contains(t, FormatDecision(&breakout), "🚀 Breakout in <b>RELIANCE</b>")
}

func TestFormatRunSummary_WithDecisions(t *testing.T) {
	report := &model.RunReport{
		Regime: model.RegimeBullish,
		Counts: model.StageCounts{
			Universe:          500,
			SectorExcluded:    80,
			DataErrors:        12,
			FundamentalPassed: 35,
			TechnicalPassed:   9,
			Signals:           2,
		},
		Decisions: []model.DecisionRecord{
			{Symbol: "RELIANCE", Signal: model.SignalPullback},
			{Symbol: "TCS", Signal: model.SignalBreakout},
		},
	}

	msg := FormatRunSummary(report)
	assert.Contains(t, msg, "✅ Stocks passing the screens: RELIANCE, TCS")
	assert.Contains(t, msg, "Universe: 500 | Sector excluded: 80 | Data errors: 12")
	assert.Contains(t, msg, "Fundamentals: 35 | Technicals: 9 | Signals: 2")
}

func TestFormatRunSummary_Empty(t *testing.T) {
	report := &model.RunReport{
		Regime: model.RegimeNeutral,
		Counts: model.StageCounts{Universe: 500},
	}
	msg := FormatRunSummary(report)
	assert.Contains(t, msg, "📭 No stocks passed the screens today.")
	assert.Contains(t, msg, "Universe: 500")
}

func TestFormatRunFailure(t *testing.T) {
	msg := FormatRunFailure(errors.New("fetch universe: catalog down"))
	assert.Equal(t, "❌ Screening run failed: fetch universe: catalog down", msg)
}
