// Package memory provides an in-process ScanRepository for runs without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"orderscan/internal/domain"
	"orderscan/internal/port"
)

type scanRepo struct {
	mu    sync.RWMutex
	scans map[uuid.UUID]*domain.ScanResult
}

// NewScanRepo creates an empty in-memory ScanRepository.
func NewScanRepo() port.ScanRepository {
	return &scanRepo{scans: make(map[uuid.UUID]*domain.ScanResult)}
}

func (r *scanRepo) Save(_ context.Context, scan *domain.ScanResult) error {
	cp := *scan
	r.mu.Lock()
	r.scans[scan.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *scanRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ScanResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scan, ok := r.scans[id]
	if !ok {
		return nil, domain.ErrScanNotFound
	}
	cp := *scan
	return &cp, nil
}

// List returns summaries newest first.
func (r *scanRepo) List(_ context.Context, offset, limit int) ([]domain.ScanSummary, int, error) {
	r.mu.RLock()
	all := make([]domain.ScanSummary, 0, len(r.scans))
	for _, s := range r.scans {
		all = append(all, s.Summary())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []domain.ScanSummary{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *scanRepo) Ping(context.Context) error {
	return nil
}
