package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/repeetcode/internal/models"
)

// MockReviewStateRepository is a mock implementation of repository.ReviewStateRepository
type MockReviewStateRepository struct {
	mock.Mock
}

func (m *MockReviewStateRepository) Get(ctx context.Context, key models.StateKey) (*models.ReviewState, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) Save(ctx context.Context, state models.ReviewState, attemptID string) (models.ReviewState, error) {
	args := m.Called(ctx, state, attemptID)
	return args.Get(0).(models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) ListDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]models.ReviewState, error) {
	args := m.Called(ctx, userID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) NextAfter(ctx context.Context, userID string, after time.Time) (*models.ReviewState, error) {
	args := m.Called(ctx, userID, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) List(ctx context.Context, userID string) ([]models.ReviewState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewState), args.Error(1)
}
