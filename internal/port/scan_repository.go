package port

import (
	"context"

	"github.com/google/uuid"

	"orderscan/internal/domain"
)

// ScanRepository persists scan results with their records.
type ScanRepository interface {
	Save(ctx context.Context, scan *domain.ScanResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error)
	List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error)
	Ping(ctx context.Context) error
}
