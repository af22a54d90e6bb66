package noop

import (
	"context"

	"go.uber.org/zap"

	"orderscan/internal/email"
	"orderscan/internal/port"
)

type noopNotifier struct {
	log *zap.Logger
}

// NewNoopNotifier creates a Notifier that only logs what it would send.
func NewNoopNotifier(log *zap.Logger) port.Notifier {
	return &noopNotifier{log: log.Named("noop_email")}
}

func (n *noopNotifier) NotifyAnomalies(_ context.Context, notice port.AnomalyNotice) error {
	msg := email.ComposeAnomalyMessage(notice)
	n.log.Info("[NOOP EMAIL] anomaly notification",
		zap.String("subject", msg.Subject),
		zap.String("scan_id", notice.ScanID),
		zap.Int("anomalies", notice.AnomalyCount),
		zap.String("report_url", notice.ReportURL),
	)
	return nil
}
