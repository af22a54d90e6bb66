package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Table is one extracted table grid: rows of cells, left to right.
// An empty string stands for a missing cell.
type Table [][]string

// RawPage is what a document source hands over for a single page.
type RawPage struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables"`
}

// OrderHeader holds the order-level fields of a page. An empty string means
// the field was not found.
type OrderHeader struct {
	CustomerOrder string `json:"customer_order"`
	PurchaseOrder string `json:"purchase_order"`
	OrderDate     string `json:"order_date"`
	AddressType   string `json:"address_type"`
	CustomerName  string `json:"customer_name"`
	StreetAddress string `json:"street_address"`
	State         string `json:"state"`
	Zipcode       string `json:"zipcode"`
	Phone         string `json:"phone"`
}

// ShipmentItem is one line item from the shipment table.
type ShipmentItem struct {
	ModelNumber    string `json:"model_number"`
	InternetNumber string `json:"internet_number"`
	Description    string `json:"item_description"`
	QtyShipped     *int   `json:"qty_shipped"`
}

// OrderRecord is the flat join of a page header with one of its items.
type OrderRecord struct {
	PageIndex      int    `db:"page_index" json:"page_index"`
	ItemIndex      int    `db:"item_index" json:"item_index"`
	CustomerOrder  string `db:"customer_order" json:"Customer_Order"`
	PurchaseOrder  string `db:"purchase_order" json:"PO#"`
	OrderDate      string `db:"order_date" json:"PO_Date"`
	AddressType    string `db:"address_type" json:"Address_Type"`
	CustomerName   string `db:"customer_name" json:"Customer_Name"`
	StreetAddress  string `db:"street_address" json:"Street_Address"`
	State          string `db:"state" json:"State"`
	Zipcode        string `db:"zipcode" json:"Zipcode"`
	Phone          string `db:"phone" json:"Tel#"`
	ModelNumber    string `db:"model_number" json:"Model_Number"`
	InternetNumber string `db:"internet_number" json:"Internet_Number"`
	Description    string `db:"item_description" json:"Item_Description"`
	QtyShipped     *int   `db:"qty_shipped" json:"Qty_Shipped"`
}

// Values returns the record's cells in Columns order. A nil quantity renders
// as an empty cell.
func (r *OrderRecord) Values() []string {
	qty := ""
	if r.QtyShipped != nil {
		qty = strconv.Itoa(*r.QtyShipped)
	}
	return []string{
		r.CustomerOrder,
		r.PurchaseOrder,
		r.OrderDate,
		r.AddressType,
		r.CustomerName,
		r.StreetAddress,
		r.State,
		r.Zipcode,
		r.Phone,
		r.ModelNumber,
		r.InternetNumber,
		r.Description,
		qty,
	}
}

// PageFailure records why a page contributed no records.
type PageFailure struct {
	Index  int    `json:"page_index"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (f *PageFailure) Error() string {
	return "page " + strconv.Itoa(f.Index) + ": " + f.Reason
}

func (f *PageFailure) Unwrap() error {
	return f.Err
}

// PageResult is the outcome of one page: either Records or a Failure.
type PageResult struct {
	Index   int
	Records []OrderRecord
	Failure *PageFailure
}

// OK reports whether the page parsed.
func (p PageResult) OK() bool {
	return p.Failure == nil
}

// Diagnostic flags a record that is missing a key field.
type Diagnostic struct {
	RuleKey   string `json:"rule_key"`
	PageIndex int    `json:"page_index"`
	ItemIndex int    `json:"item_index"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// ScanResult is the outcome of scanning one document.
type ScanResult struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	SourceName  string        `db:"source_name" json:"source_name"`
	PageCount   int           `db:"page_count" json:"page_count"`
	Records     []OrderRecord `db:"-" json:"records"`
	Anomalies   []OrderRecord `db:"-" json:"anomalies"`
	Failures    []PageFailure `db:"-" json:"failures"`
	Diagnostics []Diagnostic  `db:"-" json:"diagnostics"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// ScanSummary is the list view of a stored scan.
type ScanSummary struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SourceName   string    `db:"source_name" json:"source_name"`
	PageCount    int       `db:"page_count" json:"page_count"`
	RecordCount  int       `db:"record_count" json:"record_count"`
	AnomalyCount int       `db:"anomaly_count" json:"anomaly_count"`
	FailureCount int       `db:"failure_count" json:"failure_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Summary condenses the result for listings and logs.
func (s *ScanResult) Summary() ScanSummary {
	return ScanSummary{
		ID:           s.ID,
		SourceName:   s.SourceName,
		PageCount:    s.PageCount,
		RecordCount:  len(s.Records),
		AnomalyCount: len(s.Anomalies),
		FailureCount: len(s.Failures),
		CreatedAt:    s.CreatedAt,
	}
}
