package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"orderscan/internal/domain"
	"orderscan/internal/port"
)

// MockDocumentSource is a mock implementation of port.DocumentSource.
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) Open(ctx context.Context, path string) (port.PageReader, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.PageReader), args.Error(1)
}

// MockPageReader is a mock implementation of port.PageReader.
type MockPageReader struct {
	mock.Mock
}

func (m *MockPageReader) PageCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockPageReader) ReadPage(ctx context.Context, index int) (*domain.RawPage, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawPage), args.Error(1)
}

func (m *MockPageReader) Close() error {
	args := m.Called()
	return args.Error(0)
}
