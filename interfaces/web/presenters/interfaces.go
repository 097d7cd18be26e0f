package presenters

import (
	"sentinel/application"
	"sentinel/domain/analysis"
	"sentinel/domain/notifications"
	"sentinel/interfaces/web/templates/pages"
)

// AnalysisPresenterInterface defines the contract for analysis presentation logic.
type AnalysisPresenterInterface interface {
	RenderReport(report string) string
	ToResultView(run *analysis.Run) *AnalysisResultView
	ReportFilename(run *analysis.Run) string
	ToStatsView(stats *application.Stats) pages.StatsView
}

// ToastFormatter defines the contract for rendering toast fragments.
type ToastFormatter interface {
	FormatToast(toast notifications.Toast) (string, error)
	FormatToastExit(toast notifications.Toast) (string, error)
	FormatToastRemove(toast notifications.Toast) (string, error)
}

// Ensure presenters implement the interfaces.
var (
	_ AnalysisPresenterInterface = (*AnalysisPresenter)(nil)
	_ ToastFormatter             = (*ToastPresenter)(nil)
)
