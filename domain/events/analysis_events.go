package events

import (
	"time"

	"sentinel/domain/analysis"
)

// AnalysisCompletedEvent represents an analysis that produced a report
type AnalysisCompletedEvent struct {
	Run       *analysis.Run
	Timestamp time.Time
}

// AnalysisFailedEvent represents an analysis that stopped with an error
type AnalysisFailedEvent struct {
	Run       *analysis.Run
	Error     string
	Timestamp time.Time
}
