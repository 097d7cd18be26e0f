package events

import (
	"slices"
	"sync"

	"sentinel/domain/events"
	"sentinel/logging"
)

// AnalysisEventBus provides type-safe publishing and subscription for
// analysis lifecycle events. Handlers run on their own goroutines and a
// panicking handler never reaches the publisher.
type AnalysisEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	completedHandlers []func(events.AnalysisCompletedEvent)
	failedHandlers    []func(events.AnalysisFailedEvent)
}

// NewAnalysisEventBus creates a new typed analysis event bus
func NewAnalysisEventBus() *AnalysisEventBus {
	return &AnalysisEventBus{
		logger: logging.Default().WithComponent("analysis_event_bus"),
	}
}

func (bus *AnalysisEventBus) OnAnalysisCompleted(handler func(events.AnalysisCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.completedHandlers = append(bus.completedHandlers, handler)
}

func (bus *AnalysisEventBus) OnAnalysisFailed(handler func(events.AnalysisFailedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.failedHandlers = append(bus.failedHandlers, handler)
}

func (bus *AnalysisEventBus) PublishAnalysisCompleted(event events.AnalysisCompletedEvent) {
	bus.mu.RLock()
	handlers := slices.Clone(bus.completedHandlers)
	bus.mu.RUnlock()

	dispatch(bus.logger, "AnalysisCompleted", runID(event.Run), handlers, event)
}

func (bus *AnalysisEventBus) PublishAnalysisFailed(event events.AnalysisFailedEvent) {
	bus.mu.RLock()
	handlers := slices.Clone(bus.failedHandlers)
	bus.mu.RUnlock()

	dispatch(bus.logger, "AnalysisFailed", runID(event.Run), handlers, event)
}

// dispatch runs every handler asynchronously, logging and swallowing panics.
func dispatch[E any](logger *logging.Logger, name, id string, handlers []func(E), event E) {
	for _, handler := range handlers {
		go func(h func(E)) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panicked", "event", name, "run_id", id, "panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
