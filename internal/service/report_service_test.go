package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/port"
	"orderscan/internal/service"
	"orderscan/mocks"
)

func intPtr(v int) *int { return &v }

func scanWithAnomaly() *domain.ScanResult {
	rec := domain.OrderRecord{
		CustomerOrder: "W1",
		CustomerName:  "John Smith",
		StreetAddress: "123 Main St",
		State:         "CA",
		Zipcode:       "90001",
		Phone:         "555-123-4567",
		ModelNumber:   "12345",
		Description:   "Widget A",
		QtyShipped:    intPtr(10),
	}
	return &domain.ScanResult{
		ID:         uuid.MustParse("6b1f4c1e-2a8e-4c53-9a86-0c8c2f2b9e11"),
		SourceName: "march.pdf",
		PageCount:  1,
		Records:    []domain.OrderRecord{rec},
		Anomalies:  []domain.OrderRecord{rec},
	}
}

func TestRender_Deterministic(t *testing.T) {
	svc := service.NewReportService(&config.ReportConfig{}, &config.S3Config{}, nil, nil, zap.NewNop())
	scan := scanWithAnomaly()

	a, err := svc.Render(scan)
	require.NoError(t, err)
	b, err := svc.Render(scan)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "Source: march.pdf  Scan: 6b1f4c1e-2a8e-4c53-9a86-0c8c2f2b9e11  Anomalies: 1\n"))
	for _, v := range scan.Anomalies[0].Values() {
		assert.Contains(t, a, v)
	}
}

func TestDeliver_AppendsToFile(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "large_purchase.txt")
	notifier := new(mocks.MockNotifier)
	notifier.On("NotifyAnomalies", mock.Anything, mock.MatchedBy(func(n port.AnomalyNotice) bool {
		return n.AnomalyCount == 1 && n.SourceName == "march.pdf" && n.Report != ""
	})).Return(nil)

	svc := service.NewReportService(
		&config.ReportConfig{Path: reportPath, Sink: domain.ReportSinkFile},
		&config.S3Config{}, nil, notifier, zap.NewNop(),
	)

	first, err := svc.Deliver(context.Background(), scanWithAnomaly())
	require.NoError(t, err)
	_, err = svc.Deliver(context.Background(), scanWithAnomaly())
	require.NoError(t, err)

	assert.True(t, first.Written())
	assert.True(t, first.Notified)
	assert.Equal(t, reportPath, first.FilePath)
	assert.Empty(t, first.S3Key)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Source: march.pdf"))
	notifier.AssertNumberOfCalls(t, "NotifyAnomalies", 2)
}

func TestDeliver_NoAnomalies(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "large_purchase.txt")
	notifier := new(mocks.MockNotifier)
	svc := service.NewReportService(
		&config.ReportConfig{Path: reportPath, Sink: domain.ReportSinkFile},
		&config.S3Config{}, nil, notifier, zap.NewNop(),
	)
	scan := scanWithAnomaly()
	scan.Anomalies = []domain.OrderRecord{}

	out, err := svc.Deliver(context.Background(), scan)
	require.NoError(t, err)

	assert.False(t, out.Written())
	assert.NoFileExists(t, reportPath)
	notifier.AssertNotCalled(t, "NotifyAnomalies", mock.Anything, mock.Anything)
}

func TestDeliver_S3(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	key := service.ReportKey("orderscan", "6b1f4c1e-2a8e-4c53-9a86-0c8c2f2b9e11")
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "reports" && in.Key == key && strings.HasPrefix(in.ContentType, "text/plain")
	})).Return(&port.UploadOutput{Location: "s3://reports/" + key}, nil)
	storage.On("GetPresignedURL", mock.Anything, "reports", key, int64(900)).Return("https://signed/url", nil)
	notifier := new(mocks.MockNotifier)
	notifier.On("NotifyAnomalies", mock.Anything, mock.MatchedBy(func(n port.AnomalyNotice) bool {
		return n.ReportURL == "https://signed/url"
	})).Return(nil)

	svc := service.NewReportService(
		&config.ReportConfig{Sink: domain.ReportSinkS3},
		&config.S3Config{Bucket: "reports", Prefix: "orderscan", PresignExpiry: 900},
		storage, notifier, zap.NewNop(),
	)

	out, err := svc.Deliver(context.Background(), scanWithAnomaly())
	require.NoError(t, err)

	assert.Equal(t, "orderscan/scans/6b1f4c1e-2a8e-4c53-9a86-0c8c2f2b9e11/anomalies.txt", out.S3Key)
	assert.Equal(t, "https://signed/url", out.ReportURL)
	assert.Empty(t, out.FilePath)
	storage.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDeliver_S3UploadFails(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	svc := service.NewReportService(
		&config.ReportConfig{Sink: domain.ReportSinkS3},
		&config.S3Config{Bucket: "reports"},
		storage, nil, zap.NewNop(),
	)

	_, err := svc.Deliver(context.Background(), scanWithAnomaly())
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.ErrorContains(t, err, "access denied")
}

func TestDeliver_S3WithoutStorage(t *testing.T) {
	svc := service.NewReportService(
		&config.ReportConfig{Sink: domain.ReportSinkS3},
		&config.S3Config{Bucket: "reports"},
		nil, nil, zap.NewNop(),
	)

	_, err := svc.Deliver(context.Background(), scanWithAnomaly())
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestDeliver_NotifierErrorIsNotFatal(t *testing.T) {
	notifier := new(mocks.MockNotifier)
	notifier.On("NotifyAnomalies", mock.Anything, mock.Anything).Return(errors.New("ses throttled"))
	svc := service.NewReportService(
		&config.ReportConfig{Path: filepath.Join(t.TempDir(), "r.txt"), Sink: domain.ReportSinkFile},
		&config.S3Config{}, nil, notifier, zap.NewNop(),
	)

	out, err := svc.Deliver(context.Background(), scanWithAnomaly())
	require.NoError(t, err)
	assert.True(t, out.Written())
	assert.False(t, out.Notified)
}

func TestDeliver_Exports(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ReportConfig{
		Path:     filepath.Join(dir, "r.txt"),
		Sink:     domain.ReportSinkFile,
		CSVPath:  filepath.Join(dir, "orders.csv"),
		XLSXPath: filepath.Join(dir, "orders.xlsx"),
	}
	svc := service.NewReportService(cfg, &config.S3Config{}, nil, nil, zap.NewNop())

	out, err := svc.Deliver(context.Background(), scanWithAnomaly())
	require.NoError(t, err)

	assert.Equal(t, cfg.CSVPath, out.CSVPath)
	assert.Equal(t, cfg.XLSXPath, out.XLSXPath)
	csvData, err := os.ReadFile(cfg.CSVPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "Customer_Order,PO#,PO_Date")
	assert.FileExists(t, cfg.XLSXPath)
}
