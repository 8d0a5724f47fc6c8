package journal

import "StockScout/internal/model"

// Journal is the append log for emitted decisions and run summaries.
// Records are never updated or deleted once written; write failures are
// logged by callers and never block a screening run.
type Journal interface {
	RecordDecision(d *model.DecisionRecord) error
	RecordRun(r *model.RunReport) error
	Close() error
}
