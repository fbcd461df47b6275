package recorder

import "SetupSentinel/internal/model"

// DecisionRecord is one evaluated instrument within a run.
type DecisionRecord struct {
	RunID    string
	Decision *model.AlertDecision
	Notified bool
}

// Recorder persists an append-only history of runs and decisions.
type Recorder interface {
	RecordDecision(rec *DecisionRecord) error
	RecordRun(sum *model.RunSummary) error
	Close() error
}
