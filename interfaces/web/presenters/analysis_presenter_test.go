package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/application"
	"sentinel/domain/analysis"
	"sentinel/test/helpers"
)

func TestAnalysisPresenter_ToResultView(t *testing.T) {
	// Arrange
	presenter := NewAnalysisPresenter(nil)
	run := helpers.CompletedRun("run-1", "## Executive Summary\n**SQLi** found", 4)

	// Act
	view := presenter.ToResultView(run)

	// Assert
	require.NotNil(t, view)
	assert.Equal(t, "run-1", view.RunID)
	assert.Equal(t, 4, view.SuspiciousCount)
	assert.Equal(t, "## Executive Summary\n**SQLi** found", view.AnalysisReport)
	assert.Equal(t, "<p><h2>Executive Summary</h2><br><strong>SQLi</strong> found</p>", view.AnalysisHTML)
	assert.Nil(t, presenter.ToResultView(nil))
}

func TestAnalysisPresenter_RenderReport_Sanitizer(t *testing.T) {
	report := "# Report\n<script>alert(1)</script>[ref](https://attack.mitre.org)"

	raw := NewAnalysisPresenter(nil).RenderReport(report)
	clean := NewAnalysisPresenter(NewReportSanitizer()).RenderReport(report)

	assert.Contains(t, raw, "<script>")
	assert.NotContains(t, clean, "<script>")
	assert.Contains(t, clean, "<h1>Report</h1>")
	assert.Contains(t, clean, `href="https://attack.mitre.org"`)
	assert.Contains(t, clean, `target="_blank"`)
}

func TestAnalysisPresenter_ReportFilename(t *testing.T) {
	presenter := NewAnalysisPresenter(nil)

	completed := helpers.CompletedRun("run-1", "r", 0)
	running := analysis.NewRun("run-2", 1, time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, "threat-analysis-2026-02-12T10-00-03.txt", presenter.ReportFilename(completed))
	assert.Equal(t, "threat-analysis-2026-02-12T09-30-00.txt", presenter.ReportFilename(running))
}

func TestAnalysisPresenter_ToStatsView(t *testing.T) {
	presenter := NewAnalysisPresenter(nil)

	view := presenter.ToStatsView(&application.Stats{LogsAnalyzed: 2, ThreatsDetected: 9, KnowledgeDocuments: 3, Model: "m"})

	assert.Equal(t, int64(2), view.LogsAnalyzed)
	assert.Equal(t, int64(9), view.ThreatsDetected)
	assert.Equal(t, 3, view.KnowledgeDocuments)
	assert.Equal(t, "m", view.Model)
	assert.Zero(t, presenter.ToStatsView(nil))
}
