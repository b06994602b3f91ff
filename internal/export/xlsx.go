// Package export renders stored bill records as an XLSX workbook for
// record-keeping outside the database.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"bollette/internal/core"
	"bollette/internal/storage"
)

const dataSheet = "Data"

// BillsXLSX returns an XLSX workbook (as bytes) holding every stored bill
// on a Data sheet, one row per record in store order.
func BillsXLSX(bills []storage.StoredBill) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(dataSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(dataSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	headers := []interface{}{"file", "house_number", "tenant_name", "bill_amount", "bill_date", "vendor"}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(dataSheet, cell, &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, b := range bills {
		var amount interface{}
		if b.AmountCents != nil {
			amount = core.Money{Cents: *b.AmountCents}.String()
		}
		var date interface{}
		if b.BillDate != nil {
			date = *b.BillDate
		}
		row := []interface{}{b.SourceFile, b.HouseNumber, b.TenantName, amount, date, b.Vendor}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// Drop the workbook's default sheet so Data is the only one.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
