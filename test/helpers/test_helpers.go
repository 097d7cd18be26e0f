package helpers

import (
	"time"

	"github.com/stretchr/testify/mock"

	"sentinel/domain/analysis"
	"sentinel/infrastructure/knowledge"
	"sentinel/test/mocks"
)

// Epoch is the fixed start time used by clock-driven tests.
var Epoch = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

// MockPipeline holds every collaborator of the analysis service
type MockPipeline struct {
	Repo      *mocks.MockAnalysisRepository
	Retriever *mocks.MockRetriever
	Completer *mocks.MockCompleter
	Publisher *mocks.MockAnalysisEventPublisher
}

// NewMockPipeline creates a new set of pipeline mocks
func NewMockPipeline() *MockPipeline {
	return &MockPipeline{
		Repo:      &mocks.MockAnalysisRepository{},
		Retriever: &mocks.MockRetriever{},
		Completer: &mocks.MockCompleter{},
		Publisher: &mocks.MockAnalysisEventPublisher{},
	}
}

// ExpectKnowledgeBase sets up the retriever's descriptive methods
func (m *MockPipeline) ExpectKnowledgeBase(dir string, docs, topK int) {
	m.Retriever.On("Dir").Return(dir).Maybe()
	m.Retriever.On("Len").Return(docs).Maybe()
	m.Retriever.On("TopK").Return(topK).Maybe()
}

// ExpectSuccessfulRun sets up expectations for a run that reaches completion
func (m *MockPipeline) ExpectSuccessfulRun(docs []knowledge.Document, report string) {
	m.Repo.On("Create", mock.Anything, mock.AnythingOfType("*analysis.Run")).Return(nil)
	m.Retriever.On("Retrieve", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("int")).Return(docs, nil)
	m.Completer.On("Complete", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(report, nil)
	m.Repo.On("Complete", mock.Anything, mock.AnythingOfType("*analysis.Run")).Return(nil)
	m.Publisher.On("PublishAnalysisCompleted", mock.Anything).Return()
}

// AssertAllExpectations asserts every mock's expectations
func (m *MockPipeline) AssertAllExpectations(t mock.TestingT) {
	m.Repo.AssertExpectations(t)
	m.Retriever.AssertExpectations(t)
	m.Completer.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

// CompletedRun builds a completed run for handler and presenter tests
func CompletedRun(id, report string, suspicious int) *analysis.Run {
	run := analysis.NewRun(id, 512, Epoch)
	_ = run.Complete(analysis.Result{
		CleanedLogs:      "GET /admin",
		RetrievedContext: "[Source: default_policy] Standard procedures",
		AnalysisReport:   report,
		SuspiciousCount:  suspicious,
	}, Epoch.Add(3*time.Second))
	return run
}
