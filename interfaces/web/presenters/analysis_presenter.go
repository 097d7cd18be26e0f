package presenters

import (
	"sentinel/application"
	"sentinel/domain/analysis"
	"sentinel/interfaces/web/markdown"
	"sentinel/interfaces/web/templates/pages"
)

// ReportFilenameLayout formats the timestamp in downloaded report names.
const ReportFilenameLayout = "2006-01-02T15-04-05"

// AnalysisResultView is the results payload of POST /api/analyze.
type AnalysisResultView struct {
	RunID            string `json:"run_id"`
	CleanedLogs      string `json:"cleaned_logs"`
	RetrievedContext string `json:"retrieved_context"`
	AnalysisReport   string `json:"analysis_report"`
	AnalysisHTML     string `json:"analysis_html"`
	SuspiciousCount  int    `json:"suspicious_count"`
}

// AnalysisPresenter shapes runs and stats for JSON and page rendering.
type AnalysisPresenter struct {
	sanitizer *ReportSanitizer
}

// NewAnalysisPresenter creates an analysis presenter. A nil sanitizer
// leaves rendered reports untouched.
func NewAnalysisPresenter(sanitizer *ReportSanitizer) *AnalysisPresenter {
	return &AnalysisPresenter{sanitizer: sanitizer}
}

// RenderReport converts the markdown report into display HTML.
func (p *AnalysisPresenter) RenderReport(report string) string {
	html := markdown.Render(report)
	if p.sanitizer != nil {
		html = p.sanitizer.Sanitize(html)
	}
	return html
}

// ToResultView converts a completed run into the API results payload.
func (p *AnalysisPresenter) ToResultView(run *analysis.Run) *AnalysisResultView {
	if run == nil {
		return nil
	}
	return &AnalysisResultView{
		RunID:            run.ID,
		CleanedLogs:      run.Result.CleanedLogs,
		RetrievedContext: run.Result.RetrievedContext,
		AnalysisReport:   run.Result.AnalysisReport,
		AnalysisHTML:     p.RenderReport(run.Result.AnalysisReport),
		SuspiciousCount:  run.Result.SuspiciousCount,
	}
}

// ReportFilename names the downloaded copy of a run's report after the
// time it completed, falling back to its start time.
func (p *AnalysisPresenter) ReportFilename(run *analysis.Run) string {
	at := run.StartedAt
	if run.CompletedAt != nil {
		at = *run.CompletedAt
	}
	return "threat-analysis-" + at.UTC().Format(ReportFilenameLayout) + ".txt"
}

// ToStatsView converts service stats into the dashboard panel view.
func (p *AnalysisPresenter) ToStatsView(stats *application.Stats) pages.StatsView {
	if stats == nil {
		return pages.StatsView{}
	}
	return pages.StatsView{
		LogsAnalyzed:       stats.LogsAnalyzed,
		ThreatsDetected:    stats.ThreatsDetected,
		KnowledgeDocuments: stats.KnowledgeDocuments,
		Model:              stats.Model,
	}
}
