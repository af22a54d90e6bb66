package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"orderscan/internal/domain"
)

// MockScanRepo is a mock implementation of port.ScanRepository.
type MockScanRepo struct {
	mock.Mock
}

func (m *MockScanRepo) Save(ctx context.Context, scan *domain.ScanResult) error {
	args := m.Called(ctx, scan)
	return args.Error(0)
}

func (m *MockScanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanResult), args.Error(1)
}

func (m *MockScanRepo) List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ScanSummary), args.Int(1), args.Error(2)
}

func (m *MockScanRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
