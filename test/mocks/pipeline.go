package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sentinel/infrastructure/knowledge"
)

// MockRetriever implements the knowledge retriever for testing
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string, k int) ([]knowledge.Document, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]knowledge.Document), args.Error(1)
}

func (m *MockRetriever) Dir() string {
	return m.Called().String(0)
}

func (m *MockRetriever) Len() int {
	return m.Called().Int(0)
}

func (m *MockRetriever) TopK() int {
	return m.Called().Int(0)
}

// MockCompleter implements the language model client for testing
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Model() string {
	return m.Called().String(0)
}
