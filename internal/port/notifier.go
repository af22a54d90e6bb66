package port

import "context"

// AnomalyNotice is the content of an anomaly notification.
type AnomalyNotice struct {
	ScanID       string
	SourceName   string
	AnomalyCount int
	RecordCount  int
	FailedPages  int
	Report       string
	ReportURL    string
}

// Notifier delivers anomaly notifications.
type Notifier interface {
	NotifyAnomalies(ctx context.Context, notice AnomalyNotice) error
}
