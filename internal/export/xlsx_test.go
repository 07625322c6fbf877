package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vninvoice/internal/domain"
)

func TestWriteLedger(t *testing.T) {
	created := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	records := []domain.InvoiceRecord{
		{
			Code:          "INV-001",
			TransactionID: "FK1",
			Serial:        "C25TAA",
			InvoiceNo:     "00000042",
			DocumentKey:   "invoices/2025/06/FK1.pdf",
			CreatedAt:     created,
			UpdatedAt:     created,
		},
		{
			Code:      "INV-002",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	data, err := WriteLedger(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "FK1", rows[1][2])
	assert.Equal(t, "00000042", rows[1][6])
	assert.Equal(t, "INV-002", rows[2][0])
}

func TestWriteLedgerEmpty(t *testing.T) {
	data, err := WriteLedger(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "invoices_2025-06-15.xlsx", BuildFilename(now))
}
