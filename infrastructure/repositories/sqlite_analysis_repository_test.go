package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/database"
	"sentinel/domain/analysis"
	"sentinel/domain/contracts"
	"sentinel/logging"
)

var started = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) contracts.AnalysisRepository {
	t.Helper()
	db, err := database.New(database.Config{
		Path:              filepath.Join(t.TempDir(), "runs.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}, logging.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSqliteAnalysisRepository(db)
}

func completedRun(t *testing.T, repo contracts.AnalysisRepository, id string, at time.Time, suspicious int) *analysis.Run {
	t.Helper()
	ctx := context.Background()
	run := analysis.NewRun(id, 100, at)
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, run.Complete(analysis.Result{
		CleanedLogs:      "GET /admin",
		RetrievedContext: "[Source: default_policy] x",
		AnalysisReport:   "## Executive Summary\n" + id,
		SuspiciousCount:  suspicious,
	}, at.Add(time.Second)))
	require.NoError(t, repo.Complete(ctx, run))
	return run
}

func TestSqliteAnalysisRepository_CreateCompleteGet_RoundTrip(t *testing.T) {
	// Arrange
	repo := newTestRepository(t)
	ctx := context.Background()

	// Act
	run := completedRun(t, repo, "run-1", started, 3)
	loaded, err := repo.Get(ctx, "run-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, run.Result, loaded.Result)
	assert.Equal(t, analysis.RunStatusCompleted, loaded.Status)
	assert.Equal(t, 100, loaded.RawChars)
	assert.True(t, started.Equal(loaded.StartedAt))
	require.NotNil(t, loaded.CompletedAt)
	assert.True(t, started.Add(time.Second).Equal(*loaded.CompletedAt))
}

func TestSqliteAnalysisRepository_Get_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, contracts.ErrRunNotFound)
}

func TestSqliteAnalysisRepository_Latest_SkipsFailedRuns(t *testing.T) {
	// Arrange
	repo := newTestRepository(t)
	ctx := context.Background()
	completedRun(t, repo, "old", started, 1)
	completedRun(t, repo, "new", started.Add(time.Minute), 2)

	failed := analysis.NewRun("failed", 10, started.Add(2*time.Minute))
	require.NoError(t, repo.Create(ctx, failed))
	require.NoError(t, failed.Fail("llm down", started.Add(3*time.Minute)))
	require.NoError(t, repo.Fail(ctx, failed))

	// Act
	latest, err := repo.Latest(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}

func TestSqliteAnalysisRepository_Latest_EmptyStore(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Latest(context.Background())

	assert.ErrorIs(t, err, contracts.ErrRunNotFound)
}

func TestSqliteAnalysisRepository_Counters(t *testing.T) {
	// Arrange
	repo := newTestRepository(t)
	ctx := context.Background()
	completedRun(t, repo, "a", started, 5)
	completedRun(t, repo, "b", started.Add(time.Second), 0)

	failed := analysis.NewRun("c", 10, started)
	require.NoError(t, repo.Create(ctx, failed))
	failed.Result.SuspiciousCount = 7
	require.NoError(t, failed.Fail("boom", started))
	require.NoError(t, repo.Fail(ctx, failed))

	running := analysis.NewRun("d", 10, started)
	require.NoError(t, repo.Create(ctx, running))

	// Act
	counters, err := repo.Counters(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, analysis.Counters{Analyzed: 2, Threats: 5, Failed: 1}, counters)
}

func TestSqliteAnalysisRepository_Complete_OnlyOnce(t *testing.T) {
	repo := newTestRepository(t)
	run := completedRun(t, repo, "once", started, 1)

	err := repo.Complete(context.Background(), run)

	assert.ErrorAs(t, err, &ErrRunNotActive{})
}

func TestSqliteAnalysisRepository_Counters_EmptyStore(t *testing.T) {
	repo := newTestRepository(t)

	counters, err := repo.Counters(context.Background())

	require.NoError(t, err)
	assert.Zero(t, counters)
}
