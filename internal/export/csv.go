package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"orderscan/internal/domain"
)

// csvRow is the CSV shape of an order record. Tags follow domain.Columns.
type csvRow struct {
	CustomerOrder  string `csv:"Customer_Order"`
	PurchaseOrder  string `csv:"PO#"`
	OrderDate      string `csv:"PO_Date"`
	AddressType    string `csv:"Address_Type"`
	CustomerName   string `csv:"Customer_Name"`
	StreetAddress  string `csv:"Street_Address"`
	State          string `csv:"State"`
	Zipcode        string `csv:"Zipcode"`
	Phone          string `csv:"Tel#"`
	ModelNumber    string `csv:"Model_Number"`
	InternetNumber string `csv:"Internet_Number"`
	Description    string `csv:"Item_Description"`
	QtyShipped     string `csv:"Qty_Shipped"`
}

func toCSVRow(r *domain.OrderRecord) csvRow {
	row := csvRow{
		CustomerOrder:  r.CustomerOrder,
		PurchaseOrder:  r.PurchaseOrder,
		OrderDate:      r.OrderDate,
		AddressType:    r.AddressType,
		CustomerName:   r.CustomerName,
		StreetAddress:  r.StreetAddress,
		State:          r.State,
		Zipcode:        r.Zipcode,
		Phone:          r.Phone,
		ModelNumber:    r.ModelNumber,
		InternetNumber: r.InternetNumber,
		Description:    r.Description,
	}
	if r.QtyShipped != nil {
		row.QtyShipped = strconv.Itoa(*r.QtyShipped)
	}
	return row
}

// WriteCSV writes the header row and one row per record. A nil quantity is an
// empty cell.
func WriteCSV(w io.Writer, records []domain.OrderRecord, withBOM bool) error {
	if withBOM {
		if _, err := w.Write(BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}
	rows := make([]csvRow, len(records))
	for i := range records {
		rows[i] = toCSVRow(&records[i])
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshaling csv: %w", err)
	}
	return nil
}
