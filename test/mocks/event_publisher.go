package mocks

import (
	"github.com/stretchr/testify/mock"

	"sentinel/domain/events"
)

// MockAnalysisEventPublisher is a mock implementation of AnalysisEventPublisher for testing
type MockAnalysisEventPublisher struct {
	mock.Mock
}

func (m *MockAnalysisEventPublisher) PublishAnalysisCompleted(event events.AnalysisCompletedEvent) {
	m.Called(event)
}

func (m *MockAnalysisEventPublisher) PublishAnalysisFailed(event events.AnalysisFailedEvent) {
	m.Called(event)
}
