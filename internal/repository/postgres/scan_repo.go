package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"orderscan/internal/domain"
	"orderscan/internal/port"
)

// recordBatchSize keeps a multi-row insert well under the 65535 bind
// parameter limit.
const recordBatchSize = 500

type scanRow struct {
	ID           uuid.UUID `db:"id"`
	SourceName   string    `db:"source_name"`
	PageCount    int       `db:"page_count"`
	RecordCount  int       `db:"record_count"`
	AnomalyCount int       `db:"anomaly_count"`
	Failures     []byte    `db:"failures"`
	Diagnostics  []byte    `db:"diagnostics"`
	CreatedAt    time.Time `db:"created_at"`
}

type recordRow struct {
	ScanID    uuid.UUID `db:"scan_id"`
	IsAnomaly bool      `db:"is_anomaly"`
	domain.OrderRecord
}

type scanRepo struct {
	db *sqlx.DB
}

// NewScanRepo creates a new PostgreSQL-backed ScanRepository.
func NewScanRepo(db *sqlx.DB) port.ScanRepository {
	return &scanRepo{db: db}
}

func (r *scanRepo) Save(ctx context.Context, scan *domain.ScanResult) error {
	failures, err := jsonArray(scan.Failures)
	if err != nil {
		return fmt.Errorf("scanRepo.Save marshal failures: %w", err)
	}
	diagnostics, err := jsonArray(scan.Diagnostics)
	if err != nil {
		return fmt.Errorf("scanRepo.Save marshal diagnostics: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("scanRepo.Save begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans
		(id, source_name, page_count, record_count, anomaly_count, failures, diagnostics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		scan.ID, scan.SourceName, scan.PageCount, len(scan.Records), len(scan.Anomalies),
		failures, diagnostics, scan.CreatedAt)
	if err != nil {
		return fmt.Errorf("scanRepo.Save scan: %w", err)
	}

	rows := toRecordRows(scan)
	for start := 0; start < len(rows); start += recordBatchSize {
		end := min(start+recordBatchSize, len(rows))
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO order_records
			(scan_id, page_index, item_index, is_anomaly, customer_order, purchase_order, order_date,
			 address_type, customer_name, street_address, state, zipcode, phone,
			 model_number, internet_number, item_description, qty_shipped)
			VALUES (:scan_id, :page_index, :item_index, :is_anomaly, :customer_order, :purchase_order, :order_date,
			 :address_type, :customer_name, :street_address, :state, :zipcode, :phone,
			 :model_number, :internet_number, :item_description, :qty_shipped)`,
			rows[start:end])
		if err != nil {
			return fmt.Errorf("scanRepo.Save records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("scanRepo.Save commit: %w", err)
	}
	return nil
}

func (r *scanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error) {
	var row scanRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, source_name, page_count, record_count, anomaly_count, failures, diagnostics, created_at
		 FROM scans WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScanNotFound
		}
		return nil, fmt.Errorf("scanRepo.GetByID: %w", err)
	}

	var records []recordRow
	err = r.db.SelectContext(ctx, &records,
		`SELECT scan_id, page_index, item_index, is_anomaly, customer_order, purchase_order, order_date,
		        address_type, customer_name, street_address, state, zipcode, phone,
		        model_number, internet_number, item_description, qty_shipped
		 FROM order_records WHERE scan_id = $1
		 ORDER BY page_index, item_index`, id)
	if err != nil {
		return nil, fmt.Errorf("scanRepo.GetByID records: %w", err)
	}

	scan := &domain.ScanResult{
		ID:          row.ID,
		SourceName:  row.SourceName,
		PageCount:   row.PageCount,
		Records:     make([]domain.OrderRecord, 0, len(records)),
		Anomalies:   []domain.OrderRecord{},
		Failures:    []domain.PageFailure{},
		Diagnostics: []domain.Diagnostic{},
		CreatedAt:   row.CreatedAt,
	}
	for _, rec := range records {
		scan.Records = append(scan.Records, rec.OrderRecord)
		if rec.IsAnomaly {
			scan.Anomalies = append(scan.Anomalies, rec.OrderRecord)
		}
	}
	if err := json.Unmarshal(row.Failures, &scan.Failures); err != nil {
		return nil, fmt.Errorf("scanRepo.GetByID failures: %w", err)
	}
	if err := json.Unmarshal(row.Diagnostics, &scan.Diagnostics); err != nil {
		return nil, fmt.Errorf("scanRepo.GetByID diagnostics: %w", err)
	}
	return scan, nil
}

func (r *scanRepo) List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM scans"); err != nil {
		return nil, 0, fmt.Errorf("scanRepo.List count: %w", err)
	}

	var scans []domain.ScanSummary
	err := r.db.SelectContext(ctx, &scans,
		`SELECT id, source_name, page_count, record_count, anomaly_count,
		        jsonb_array_length(failures) AS failure_count, created_at
		 FROM scans ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("scanRepo.List: %w", err)
	}
	return scans, total, nil
}

func (r *scanRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type recordKey struct{ page, item int }

func toRecordRows(scan *domain.ScanResult) []recordRow {
	anomalous := make(map[recordKey]bool, len(scan.Anomalies))
	for _, a := range scan.Anomalies {
		anomalous[recordKey{a.PageIndex, a.ItemIndex}] = true
	}
	rows := make([]recordRow, len(scan.Records))
	for i, rec := range scan.Records {
		rows[i] = recordRow{
			ScanID:      scan.ID,
			IsAnomaly:   anomalous[recordKey{rec.PageIndex, rec.ItemIndex}],
			OrderRecord: rec,
		}
	}
	return rows
}

// jsonArray marshals a slice, encoding nil as [] so jsonb_array_length works.
func jsonArray[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
