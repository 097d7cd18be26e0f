package contracts

import (
	"context"

	"sentinel/domain/analysis"
)

// AnalysisRepository persists analysis runs.
type AnalysisRepository interface {
	// Create stores a new running analysis.
	Create(ctx context.Context, run *analysis.Run) error

	// Complete and Fail persist the terminal state of a run.
	Complete(ctx context.Context, run *analysis.Run) error
	Fail(ctx context.Context, run *analysis.Run) error

	// Get returns ErrRunNotFound when no run has the ID.
	Get(ctx context.Context, id string) (*analysis.Run, error)

	// Latest returns the most recently started completed run, or
	// ErrRunNotFound when none exists.
	Latest(ctx context.Context) (*analysis.Run, error)

	Counters(ctx context.Context) (analysis.Counters, error)
}
