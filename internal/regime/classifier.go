package regime

import (
	"github.com/rs/zerolog"

	"StockScout/internal/calculator"
	"StockScout/internal/model"
)

const (
	trendPeriod = 200
	minVIXBars  = 10
)

// Config holds the volatility cutoffs separating the regimes.
type Config struct {
	BullishVIXMax float64
	BearishVIXMin float64
}

// DefaultConfig returns the reference cutoffs: calm below 15, stressed above 20.
func DefaultConfig() Config {
	return Config{BullishVIXMax: 15, BearishVIXMin: 20}
}

// Classifier buckets the broad market into Bullish, Neutral or Bearish.
type Classifier struct {
	cfg Config
	log zerolog.Logger
}

// NewClassifier creates a Classifier with the given cutoffs.
func NewClassifier(cfg Config, log zerolog.Logger) *Classifier {
	return &Classifier{cfg: cfg, log: log.With().Str("component", "regime").Logger()}
}

// Classify derives the regime from the index and volatility close series.
// Bullish needs both an index above its 200 day average and calm volatility;
// Bearish needs either a broken trend or stressed volatility. Bullish is
// evaluated first; the conditions are not complementary, so the order matters.
// Insufficient history on either series yields Neutral, never an error.
func (c *Classifier) Classify(indexCloses, vixCloses []float64) model.Regime {
	if len(indexCloses) < trendPeriod || len(vixCloses) < minVIXBars {
		c.log.Warn().
			Int("index_bars", len(indexCloses)).
			Int("vix_bars", len(vixCloses)).
			Msg("Insufficient market history, defaulting to neutral regime")
		return model.RegimeNeutral
	}

	sma, err := calculator.CalculateSMA(indexCloses, trendPeriod)
	if err != nil {
		return model.RegimeNeutral
	}
	price := indexCloses[len(indexCloses)-1]
	vix := vixCloses[len(vixCloses)-1]

	result := model.RegimeNeutral
	switch {
	case price > sma && vix < c.cfg.BullishVIXMax:
		result = model.RegimeBullish
	case price < sma || vix > c.cfg.BearishVIXMin:
		result = model.RegimeBearish
	}

	c.log.Debug().
		Float64("price", price).
		Float64("sma200", sma).
		Float64("vix", vix).
		Str("regime", string(result)).
		Msg("Market regime classified")
	return result
}
