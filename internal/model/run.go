package model

import "time"

// RunSummary describes the outcome of one pass over all instruments.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Skipped    int
	Alerts     int
	Failures   []string
}
