package recorder

import "SetupSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ *DecisionRecord) error { return nil }
func (n *NoopRecorder) RecordRun(_ *model.RunSummary) error    { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
