package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sentinel/database"
	"sentinel/domain/analysis"
	"sentinel/domain/contracts"
)

const selectRunColumns = `SELECT id, raw_chars, cleaned_logs, retrieved_context, analysis_report,
	suspicious_count, status, error, started_at, completed_at FROM analysis_runs`

// SqliteAnalysisRepository implements contracts.AnalysisRepository with read/write separation.
type SqliteAnalysisRepository struct {
	*BaseRepository
}

// NewSqliteAnalysisRepository creates a new analysis repository.
func NewSqliteAnalysisRepository(database *database.Database) contracts.AnalysisRepository {
	return &SqliteAnalysisRepository{
		BaseRepository: NewBaseRepository(database),
	}
}

// Create inserts a running analysis.
func (r *SqliteAnalysisRepository) Create(ctx context.Context, run *analysis.Run) error {
	_, err := r.Writer().ExecContext(ctx,
		`INSERT INTO analysis_runs (id, raw_chars, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.RawChars, string(run.Status), run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create analysis run %s: %w", run.ID, err)
	}
	return nil
}

// Complete stores the result of a finished run.
func (r *SqliteAnalysisRepository) Complete(ctx context.Context, run *analysis.Run) error {
	return r.finish(ctx, run)
}

// Fail stores the error and any partial result of a failed run.
func (r *SqliteAnalysisRepository) Fail(ctx context.Context, run *analysis.Run) error {
	return r.finish(ctx, run)
}

// finish only updates rows still marked running, so a run is finalized once.
func (r *SqliteAnalysisRepository) finish(ctx context.Context, run *analysis.Run) error {
	return r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE analysis_runs SET
				cleaned_logs = ?, retrieved_context = ?, analysis_report = ?,
				suspicious_count = ?, status = ?, error = ?, completed_at = ?
			WHERE id = ? AND status = ?`,
			run.Result.CleanedLogs, run.Result.RetrievedContext, run.Result.AnalysisReport,
			run.Result.SuspiciousCount, string(run.Status), run.Error, r.ToNullTime(run.CompletedAt),
			run.ID, string(analysis.RunStatusRunning))
		if err != nil {
			return fmt.Errorf("failed to finish analysis run %s: %w", run.ID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrRunNotActive{RunID: run.ID}
		}
		return nil
	})
}

// Get loads a run by ID.
func (r *SqliteAnalysisRepository) Get(ctx context.Context, id string) (*analysis.Run, error) {
	row := r.Reader().QueryRowContext(ctx, selectRunColumns+` WHERE id = ?`, id)
	return r.scanRun(row)
}

// Latest loads the most recently started completed run.
func (r *SqliteAnalysisRepository) Latest(ctx context.Context) (*analysis.Run, error) {
	row := r.Reader().QueryRowContext(ctx,
		selectRunColumns+` WHERE status = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`,
		string(analysis.RunStatusCompleted))
	return r.scanRun(row)
}

// Counters sums completed runs and their suspicious lines, plus failures.
func (r *SqliteAnalysisRepository) Counters(ctx context.Context) (analysis.Counters, error) {
	var counters analysis.Counters
	err := r.Reader().QueryRowContext(ctx, `SELECT
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN suspicious_count ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM analysis_runs`).Scan(&counters.Analyzed, &counters.Threats, &counters.Failed)
	if err != nil {
		return analysis.Counters{}, fmt.Errorf("failed to read analysis counters: %w", err)
	}
	return counters, nil
}

func (r *SqliteAnalysisRepository) scanRun(row *sql.Row) (*analysis.Run, error) {
	var (
		run         analysis.Run
		status      string
		completedAt sql.NullTime
	)
	err := row.Scan(&run.ID, &run.RawChars, &run.Result.CleanedLogs, &run.Result.RetrievedContext,
		&run.Result.AnalysisReport, &run.Result.SuspiciousCount, &status, &run.Error,
		&run.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis run: %w", err)
	}

	run.Status = analysis.RunStatus(status)
	run.StartedAt = run.StartedAt.UTC()
	run.CompletedAt = r.FromNullTime(completedAt)
	return &run, nil
}
