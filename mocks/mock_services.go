package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"orderscan/internal/domain"
	"orderscan/internal/service"
)

// MockScanService is a mock implementation of service.ScanService.
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Scan(ctx context.Context, input service.ScanInput) (*domain.ScanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanResult), args.Error(1)
}

func (m *MockScanService) Get(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanResult), args.Error(1)
}

func (m *MockScanService) List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ScanSummary), args.Int(1), args.Error(2)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Render(scan *domain.ScanResult) (string, error) {
	args := m.Called(scan)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) Deliver(ctx context.Context, scan *domain.ScanResult) (*service.ReportOutcome, error) {
	args := m.Called(ctx, scan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportOutcome), args.Error(1)
}
