package events

import (
	"sentinel/domain/analysis"
	"sentinel/domain/events"
	"sentinel/logging"
)

const analysisCompletedMessage = "Analysis completed successfully"

// Notifier shows toasts. *notifications.ToastManager satisfies it.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// StatsBroadcaster tells connected pages the dashboard counters changed.
type StatsBroadcaster interface {
	BroadcastStatsUpdate()
}

// NotificationEventHandlers turns analysis events into toasts and dashboard refreshes
type NotificationEventHandlers struct {
	notifier    Notifier
	broadcaster StatsBroadcaster
	logger      *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications
func NewNotificationEventHandlers(notifier Notifier, broadcaster StatsBroadcaster) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *AnalysisEventBus) {
	eventBus.OnAnalysisCompleted(h.handleAnalysisCompleted)
	eventBus.OnAnalysisFailed(h.handleAnalysisFailed)
}

func (h *NotificationEventHandlers) handleAnalysisCompleted(event events.AnalysisCompletedEvent) {
	h.logger.Info("Handling analysis completed event", "run_id", runID(event.Run))

	h.notifier.Success(analysisCompletedMessage)
	h.broadcaster.BroadcastStatsUpdate()
}

func (h *NotificationEventHandlers) handleAnalysisFailed(event events.AnalysisFailedEvent) {
	h.logger.Info("Handling analysis failed event", "run_id", runID(event.Run), "error", event.Error)

	message := event.Error
	if message == "" {
		message = "Analysis failed"
	}
	h.notifier.Error(message)
	h.broadcaster.BroadcastStatsUpdate()
}

func runID(run *analysis.Run) string {
	if run == nil {
		return "unknown"
	}
	return run.ID
}
