package pages

// StatsView is the dashboard counters panel.
type StatsView struct {
	LogsAnalyzed       int64
	ThreatsDetected    int64
	KnowledgeDocuments int
	Model              string
}

// AnalyzerPageView is the view model for the analyzer page.
type AnalyzerPageView struct {
	Title string
	Stats StatsView
}
