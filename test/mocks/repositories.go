package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sentinel/domain/analysis"
)

// MockAnalysisRepository implements AnalysisRepository for testing
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, run *analysis.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Complete(ctx context.Context, run *analysis.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Fail(ctx context.Context, run *analysis.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Get(ctx context.Context, id string) (*analysis.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Run), args.Error(1)
}

func (m *MockAnalysisRepository) Latest(ctx context.Context) (*analysis.Run, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Run), args.Error(1)
}

func (m *MockAnalysisRepository) Counters(ctx context.Context) (analysis.Counters, error) {
	args := m.Called(ctx)
	return args.Get(0).(analysis.Counters), args.Error(1)
}
