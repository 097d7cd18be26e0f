package events

// AnalysisEventPublisher defines the interface for publishing analysis events.
type AnalysisEventPublisher interface {
	PublishAnalysisCompleted(event AnalysisCompletedEvent)
	PublishAnalysisFailed(event AnalysisFailedEvent)
}
