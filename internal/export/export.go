// Package export produces an XLSX workbook for a processed receipt, for
// operators who want the record outside the database or the email.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/expenseops/receipt-relay/internal/entity"
)

// ReceiptXLSX returns a workbook with a Summary sheet (label/value pairs)
// and a Line Items sheet mirroring the notification table.
func ReceiptXLSX(rec *entity.ReceiptRecord) ([]byte, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(summarySheet, 1, 1, "Receipt ID")
	write(summarySheet, 2, 1, rec.ID.String())
	write(summarySheet, 1, 2, "Source")
	write(summarySheet, 2, 2, rec.Bucket+"/"+rec.Key)
	write(summarySheet, 1, 3, "Inserted At")
	write(summarySheet, 2, 3, rec.InsertedAt)
	write(summarySheet, 1, 4, "Extraction API")
	write(summarySheet, 2, 4, fmt.Sprintf("%s (%d documents)", rec.Extraction.API, rec.Extraction.DocCount))

	// Stable ordering for the detected fields.
	labels := make([]string, 0, len(rec.Summary))
	for k := range rec.Summary {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	row := 6
	write(summarySheet, 1, row, "Field")
	write(summarySheet, 2, row, "Value")
	for _, label := range labels {
		row++
		write(summarySheet, 1, row, label)
		write(summarySheet, 2, row, rec.Summary[label])
	}

	const itemsSheet = "Line Items"
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	headers := []string{"Description", "Qty", "Unit Price", "Line Total"}
	for i, h := range headers {
		write(itemsSheet, i+1, 1, h)
	}
	for i, item := range rec.LineItems {
		write(itemsSheet, 1, i+2, item.Description)
		write(itemsSheet, 2, i+2, item.Quantity)
		write(itemsSheet, 3, i+2, item.UnitPrice)
		write(itemsSheet, 4, i+2, item.Total)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
