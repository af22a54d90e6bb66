package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"orderscan/internal/domain"
)

const (
	SheetRecords   = "Orders"
	SheetAnomalies = "Anomalies"
)

// WriteXLSX writes a workbook with the full record table and the anomaly
// table on separate sheets.
func WriteXLSX(w io.Writer, records, anomalies []domain.OrderRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAnomalies); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for _, sheet := range []struct {
		name    string
		records []domain.OrderRecord
	}{
		{SheetRecords, records},
		{SheetAnomalies, anomalies},
	} {
		if err := writeSheet(f, sheet.name, sheet.records, headerStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []domain.OrderRecord, headerStyle int) error {
	header := make([]interface{}, len(domain.Columns))
	for i, c := range domain.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(domain.Columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, xlsxRow(&records[i])); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// xlsxRow keeps the quantity numeric so spreadsheet filters work on it.
func xlsxRow(r *domain.OrderRecord) *[]interface{} {
	vals := r.Values()
	row := make([]interface{}, len(vals))
	for i, v := range vals {
		row[i] = v
	}
	if r.QtyShipped != nil {
		row[len(row)-1] = *r.QtyShipped
	}
	return &row
}
