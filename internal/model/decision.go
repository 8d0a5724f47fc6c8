package model

import "time"

// DecisionRecord is one tradable decision emitted by a screening run.
// Records are append-only: once emitted they are never mutated.
type DecisionRecord struct {
	ID          string
	RunID       string
	Symbol      string
	Signal      SignalType
	EntryPrice  float64
	StopPrice   float64
	TargetPrice float64
	Quantity    int
	CreatedAt   time.Time
}

// StageCounts tracks how many symbols survived each stage of a run.
// Silently dropped symbols are observable only through these counts.
type StageCounts struct {
	Universe          int
	SectorExcluded    int
	DataErrors        int
	FundamentalPassed int
	TechnicalPassed   int
	Signals           int
}

// RunReport summarizes one complete screening run.
type RunReport struct {
	RunID      string
	Regime     Regime
	Counts     StageCounts
	Decisions  []DecisionRecord
	StartedAt  time.Time
	FinishedAt time.Time
}
