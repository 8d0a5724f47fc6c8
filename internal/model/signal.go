package model

// SignalType names the entry setup that produced a decision.
type SignalType string

const (
	SignalPullback SignalType = "Pullback"
	SignalBreakout SignalType = "Breakout"
)
