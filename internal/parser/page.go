package parser

import (
	"fmt"

	"orderscan/internal/domain"
)

// PageOutput is everything parsed from one page.
type PageOutput struct {
	Header  domain.OrderHeader
	Items   []domain.ShipmentItem
	Records []domain.OrderRecord
	// HeaderBlocks counts Ordered By blocks. Items always attach to the
	// first one, so values above 1 mean the page was only partly understood.
	HeaderBlocks int
}

// PageParser runs the per-page pipeline: flatten, split, extract the header,
// parse shipments and merge them into records.
type PageParser struct {
	shipments *ShipmentParser
}

// NewPageParser creates a PageParser whose shipment tables carry
// headerTokens column-name tokens.
func NewPageParser(headerTokens int) *PageParser {
	return &PageParser{shipments: NewShipmentParser(headerTokens)}
}

// Parse turns a raw page into records. A page whose tables hold no text
// fails with domain.ErrNoTableContent. Missing fields and a missing shipment
// table are not errors.
func (p *PageParser) Parse(page domain.RawPage) (*PageOutput, error) {
	flat := Flatten(page.Tables)
	if flat == "" {
		return nil, fmt.Errorf("page %d: %w", page.Index, domain.ErrNoTableContent)
	}

	segs := Split(flat)
	header := BuildHeader(ExtractPageFields(page.Text), ExtractOrderFields(segs.Order))
	items := p.shipments.Parse(segs.Shipment)

	return &PageOutput{
		Header:       header,
		Items:        items,
		Records:      MergeRecords(page.Index, header, items),
		HeaderBlocks: CountOrderBlocks(segs.Order),
	}, nil
}

// MergeRecords joins the header with each item in order. A page without
// items still yields one record carrying only the header.
func MergeRecords(pageIndex int, header domain.OrderHeader, items []domain.ShipmentItem) []domain.OrderRecord {
	if len(items) == 0 {
		return []domain.OrderRecord{newRecord(pageIndex, 0, header, domain.ShipmentItem{})}
	}
	records := make([]domain.OrderRecord, 0, len(items))
	for i, item := range items {
		records = append(records, newRecord(pageIndex, i, header, item))
	}
	return records
}

func newRecord(pageIndex, itemIndex int, h domain.OrderHeader, item domain.ShipmentItem) domain.OrderRecord {
	return domain.OrderRecord{
		PageIndex:      pageIndex,
		ItemIndex:      itemIndex,
		CustomerOrder:  h.CustomerOrder,
		PurchaseOrder:  h.PurchaseOrder,
		OrderDate:      h.OrderDate,
		AddressType:    h.AddressType,
		CustomerName:   h.CustomerName,
		StreetAddress:  h.StreetAddress,
		State:          h.State,
		Zipcode:        h.Zipcode,
		Phone:          h.Phone,
		ModelNumber:    item.ModelNumber,
		InternetNumber: item.InternetNumber,
		Description:    item.Description,
		QtyShipped:     item.QtyShipped,
	}
}
