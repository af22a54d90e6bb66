package pdfsource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderscan/internal/domain"
	"orderscan/internal/pdfsource"
	"orderscan/internal/port"
	"orderscan/mocks"
)

func TestFallbackSource_FirstSucceeds(t *testing.T) {
	s1 := new(mocks.MockDocumentSource)
	s2 := new(mocks.MockDocumentSource)
	r := new(mocks.MockPageReader)

	r.On("PageCount").Return(3)
	s1.On("Open", mock.Anything, "po.pdf").Return(r, nil)

	fs := pdfsource.NewFallbackSource([]port.DocumentSource{s1, s2}, []string{"tabula", "ledongthuc"}, zap.NewNop())

	got, err := fs.Open(context.Background(), "po.pdf")

	require.NoError(t, err)
	assert.Equal(t, 3, got.PageCount())
	s2.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func TestFallbackSource_FirstFails_SecondSucceeds(t *testing.T) {
	s1 := new(mocks.MockDocumentSource)
	s2 := new(mocks.MockDocumentSource)
	r := new(mocks.MockPageReader)

	s1.On("Open", mock.Anything, "po.pdf").Return(nil, errors.New("bad xref"))
	r.On("PageCount").Return(1)
	s2.On("Open", mock.Anything, "po.pdf").Return(r, nil)

	fs := pdfsource.NewFallbackSource([]port.DocumentSource{s1, s2}, []string{"tabula", "ledongthuc"}, zap.NewNop())

	got, err := fs.Open(context.Background(), "po.pdf")

	require.NoError(t, err)
	assert.Same(t, r, got)
	s1.AssertExpectations(t)
	s2.AssertExpectations(t)
}

func TestFallbackSource_EmptyDocumentFallsThrough(t *testing.T) {
	s1 := new(mocks.MockDocumentSource)
	s2 := new(mocks.MockDocumentSource)
	empty := new(mocks.MockPageReader)
	full := new(mocks.MockPageReader)

	empty.On("PageCount").Return(0)
	empty.On("Close").Return(nil)
	full.On("PageCount").Return(2)
	s1.On("Open", mock.Anything, "po.pdf").Return(empty, nil)
	s2.On("Open", mock.Anything, "po.pdf").Return(full, nil)

	fs := pdfsource.NewFallbackSource([]port.DocumentSource{s1, s2}, []string{"a", "b"}, zap.NewNop())

	got, err := fs.Open(context.Background(), "po.pdf")

	require.NoError(t, err)
	assert.Same(t, full, got)
	empty.AssertCalled(t, "Close")
}

func TestFallbackSource_AllFail(t *testing.T) {
	s1 := new(mocks.MockDocumentSource)
	s2 := new(mocks.MockDocumentSource)
	last := pdfsource.NewEngineError("b", "open", errors.New("truncated"))

	s1.On("Open", mock.Anything, "po.pdf").Return(nil, errors.New("bad xref"))
	s2.On("Open", mock.Anything, "po.pdf").Return(nil, last)

	fs := pdfsource.NewFallbackSource([]port.DocumentSource{s1, s2}, []string{"a", "b"}, zap.NewNop())

	_, err := fs.Open(context.Background(), "po.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
	var engErr *pdfsource.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, "b", engErr.Engine)
}

func TestFallbackSource_CanceledContext(t *testing.T) {
	s1 := new(mocks.MockDocumentSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := pdfsource.NewFallbackSource([]port.DocumentSource{s1}, []string{"a"}, zap.NewNop())

	_, err := fs.Open(ctx, "po.pdf")

	assert.ErrorIs(t, err, context.Canceled)
	s1.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}
