package journal

import "StockScout/internal/model"

// NoopJournal is a no-op implementation used when SQLite is not configured.
type NoopJournal struct{}

func NewNoopJournal() *NoopJournal { return &NoopJournal{} }

func (n *NoopJournal) RecordDecision(_ *model.DecisionRecord) error { return nil }
func (n *NoopJournal) RecordRun(_ *model.RunReport) error           { return nil }
func (n *NoopJournal) Close() error                                 { return nil }
