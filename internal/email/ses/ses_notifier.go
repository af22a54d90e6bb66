package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/email"
	"orderscan/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	recipients  []string
	log         *zap.Logger
}

// NewSESNotifier creates a new SES-backed Notifier.
func NewSESNotifier(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		recipients:  cfg.Recipients,
		log:         log.Named("ses"),
	}, nil
}

func (s *sesNotifier) NotifyAnomalies(ctx context.Context, notice port.AnomalyNotice) error {
	if len(s.recipients) == 0 {
		s.log.Debug("no recipients configured, skipping notification", zap.String("scan_id", notice.ScanID))
		return nil
	}

	msg := email.ComposeAnomalyMessage(notice)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.HTML},
					Text: &types.Content{Data: &msg.Text},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	s.log.Info("anomaly notification sent",
		zap.String("scan_id", notice.ScanID),
		zap.Int("recipients", len(s.recipients)),
	)
	return nil
}
