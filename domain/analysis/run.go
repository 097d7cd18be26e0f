package analysis

import (
	"fmt"
	"time"
)

// RunStatus represents the status of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Result is what one pass of the pipeline produces.
type Result struct {
	CleanedLogs      string `json:"cleaned_logs"`
	RetrievedContext string `json:"retrieved_context"`
	AnalysisReport   string `json:"analysis_report"`
	SuspiciousCount  int    `json:"suspicious_count"`
}

// Run is a persisted analysis attempt.
type Run struct {
	ID          string
	RawChars    int
	Result      Result
	Status      RunStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewRun creates a running analysis for logs of rawChars characters.
func NewRun(id string, rawChars int, startedAt time.Time) *Run {
	return &Run{
		ID:        id,
		RawChars:  rawChars,
		Status:    RunStatusRunning,
		StartedAt: startedAt,
	}
}

// IsActive reports whether the run has not finished yet.
func (r *Run) IsActive() bool {
	return r.Status == RunStatusRunning
}

// Complete records the pipeline result and finishes the run.
func (r *Run) Complete(result Result, at time.Time) error {
	if !r.IsActive() {
		return fmt.Errorf("cannot complete run in status: %s", r.Status)
	}
	r.Result = result
	r.Status = RunStatusCompleted
	r.CompletedAt = &at
	return nil
}

// Fail finishes the run with errorMsg. Partial results already gathered
// (such as the cleaned logs) are kept.
func (r *Run) Fail(errorMsg string, at time.Time) error {
	if !r.IsActive() {
		return fmt.Errorf("cannot fail run in status: %s", r.Status)
	}
	r.Status = RunStatusFailed
	r.Error = errorMsg
	r.CompletedAt = &at
	return nil
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Counters are the running totals shown on the dashboard.
type Counters struct {
	Analyzed int64 `json:"logs_analyzed"`
	Threats  int64 `json:"threats_detected"`
	Failed   int64 `json:"failed_runs"`
}
