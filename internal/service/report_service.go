package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/export"
	"orderscan/internal/port"
)

// ReportOutcome describes where a report went.
type ReportOutcome struct {
	Report    string `json:"report,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	S3Key     string `json:"s3_key,omitempty"`
	ReportURL string `json:"report_url,omitempty"`
	CSVPath   string `json:"csv_path,omitempty"`
	XLSXPath  string `json:"xlsx_path,omitempty"`
	Notified  bool   `json:"notified"`
}

// Written reports whether the anomaly report reached any sink.
func (o *ReportOutcome) Written() bool {
	return o.FilePath != "" || o.S3Key != ""
}

// ReportService renders anomaly reports and delivers them to the configured
// sinks.
type ReportService interface {
	Render(scan *domain.ScanResult) (string, error)
	Deliver(ctx context.Context, scan *domain.ScanResult) (*ReportOutcome, error)
}

type reportService struct {
	cfg      config.ReportConfig
	s3       config.S3Config
	storage  port.ObjectStorage
	notifier port.Notifier
	log      *zap.Logger
}

// NewReportService creates a new ReportService. storage may be nil when the
// sink never targets S3.
func NewReportService(
	cfg *config.ReportConfig,
	s3Cfg *config.S3Config,
	storage port.ObjectStorage,
	notifier port.Notifier,
	log *zap.Logger,
) ReportService {
	return &reportService{
		cfg:      *cfg,
		s3:       *s3Cfg,
		storage:  storage,
		notifier: notifier,
		log:      log.Named("reportService"),
	}
}

// Render returns the grid report of the scan's anomalies, preceded by a line
// identifying the scan.
func (s *reportService) Render(scan *domain.ScanResult) (string, error) {
	if scan == nil {
		return "", errors.New("render: nil scan")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s  Scan: %s  Anomalies: %d\n", scan.SourceName, scan.ID, len(scan.Anomalies))
	sb.WriteString(export.RenderGrid(scan.Anomalies))
	return sb.String(), nil
}

// Deliver writes the optional CSV and XLSX exports, then, if the scan has
// anomalies, sends the report to each sink and notifies. A notification
// failure is logged and does not fail delivery.
func (s *reportService) Deliver(ctx context.Context, scan *domain.ScanResult) (*ReportOutcome, error) {
	out := &ReportOutcome{}
	if err := s.writeExports(scan, out); err != nil {
		return nil, err
	}
	if len(scan.Anomalies) == 0 {
		s.log.Info("no anomalies, report skipped", zap.Stringer("scan_id", scan.ID))
		return out, nil
	}

	report, err := s.Render(scan)
	if err != nil {
		return nil, err
	}
	out.Report = report

	if s.cfg.Sink.ToFile() {
		if err := appendFile(s.cfg.Path, report); err != nil {
			return nil, fmt.Errorf("writing report file: %w", err)
		}
		out.FilePath = s.cfg.Path
	}

	if s.cfg.Sink.ToS3() {
		if err := s.upload(ctx, scan, report, out); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		notice := port.AnomalyNotice{
			ScanID:       scan.ID.String(),
			SourceName:   scan.SourceName,
			AnomalyCount: len(scan.Anomalies),
			RecordCount:  len(scan.Records),
			FailedPages:  len(scan.Failures),
			Report:       report,
			ReportURL:    out.ReportURL,
		}
		if err := s.notifier.NotifyAnomalies(ctx, notice); err != nil {
			s.log.Error("anomaly notification failed", zap.Stringer("scan_id", scan.ID), zap.Error(err))
		} else {
			out.Notified = true
		}
	}

	s.log.Info("report delivered",
		zap.Stringer("scan_id", scan.ID),
		zap.String("file", out.FilePath),
		zap.String("s3_key", out.S3Key),
		zap.Bool("notified", out.Notified),
	)
	return out, nil
}

// ReportKey is the object key of a scan's anomaly report.
func ReportKey(prefix, scanID string) string {
	return path.Join(prefix, "scans", scanID, "anomalies.txt")
}

func (s *reportService) upload(ctx context.Context, scan *domain.ScanResult, report string, out *ReportOutcome) error {
	if s.storage == nil {
		return fmt.Errorf("%w: no object storage configured", domain.ErrUploadFailed)
	}
	key := ReportKey(s.s3.Prefix, scan.ID.String())
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3.Bucket,
		Key:         key,
		Body:        strings.NewReader(report),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(report)),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	out.S3Key = key

	url, err := s.storage.GetPresignedURL(ctx, s.s3.Bucket, key, s.s3.PresignExpiry)
	if err != nil {
		s.log.Warn("presigning report URL", zap.String("key", key), zap.Error(err))
		return nil
	}
	out.ReportURL = url
	return nil
}

func (s *reportService) writeExports(scan *domain.ScanResult, out *ReportOutcome) error {
	if s.cfg.CSVPath != "" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, scan.Records, true); err != nil {
			return fmt.Errorf("exporting csv: %w", err)
		}
		if err := writeFile(s.cfg.CSVPath, &buf); err != nil {
			return fmt.Errorf("writing csv export: %w", err)
		}
		out.CSVPath = s.cfg.CSVPath
	}
	if s.cfg.XLSXPath != "" {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, scan.Records, scan.Anomalies); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
		if err := writeFile(s.cfg.XLSXPath, &buf); err != nil {
			return fmt.Errorf("writing xlsx export: %w", err)
		}
		out.XLSXPath = s.cfg.XLSXPath
	}
	return nil
}

func appendFile(name, report string) error {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, report+"\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFile(name string, r io.Reader) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
