package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/repeetcode/internal/models"
)

// MockProblemRepository is a mock implementation of repository.ProblemRepository
type MockProblemRepository struct {
	mock.Mock
}

func (m *MockProblemRepository) List(ctx context.Context) ([]models.Problem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Problem), args.Error(1)
}

func (m *MockProblemRepository) Get(ctx context.Context, slug string) (*models.Problem, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Problem), args.Error(1)
}

func (m *MockProblemRepository) UpsertBatch(ctx context.Context, problems []models.Problem) (int, error) {
	args := m.Called(ctx, problems)
	return args.Int(0), args.Error(1)
}

func (m *MockProblemRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
