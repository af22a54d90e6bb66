package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"orderscan/internal/port"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAnomalies(ctx context.Context, notice port.AnomalyNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
