package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"vninvoice/internal/domain"
)

const sheetName = "Invoices"

// columns defines the ledger sheet header row (10 columns).
var columns = []string{
	"Code",
	"Ref ID",
	"Transaction ID",
	"Template No",
	"Pattern",
	"Serial",
	"Invoice No",
	"Document Key",
	"Created At",
	"Updated At",
}

// WriteLedger renders the given ledger records as a single-sheet XLSX
// workbook and returns the encoded bytes.
func WriteLedger(records []domain.InvoiceRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	if err := writeRow(f, 1, columns); err != nil {
		return nil, err
	}
	for i := range records {
		if err := writeRow(f, i+2, recordToRow(&records[i])); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}

func recordToRow(rec *domain.InvoiceRecord) []string {
	return []string{
		rec.Code,
		rec.RefID,
		rec.TransactionID,
		rec.TemplateNo,
		rec.Pattern,
		rec.Serial,
		rec.InvoiceNo,
		rec.DocumentKey,
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	}
}

// BuildFilename returns the attachment filename for Content-Disposition.
// Format: invoices_{YYYY-MM-DD}.xlsx
func BuildFilename(now time.Time) string {
	return fmt.Sprintf("invoices_%s.xlsx", now.Format("2006-01-02"))
}
