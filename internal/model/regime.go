package model

// Regime classifies the broad market's risk posture for one run.
type Regime string

const (
	RegimeBullish Regime = "Bullish"
	RegimeNeutral Regime = "Neutral"
	RegimeBearish Regime = "Bearish"
)
