package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vninvoice/internal/domain"
)

func TestBuildUpdateByCodeWithDocument(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	doc := &domain.DocumentHandle{Bucket: "invoices", Key: "invoices/2025/06/ABC123.pdf"}

	query, args := buildUpdateByCode("ABC123", domain.LedgerFields{InvoiceNo: "42"}, doc, now)

	assert.Contains(t, query, "document_bucket = $8")
	assert.Contains(t, query, "document_key = $9")
	require.Len(t, args, 10)
	assert.Equal(t, "invoices", args[7])
	assert.Equal(t, "invoices/2025/06/ABC123.pdf", args[8])
	assert.Equal(t, "ABC123", args[9])
}

func TestBuildUpdateByCodeWithoutDocumentKeepsStoredHandle(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	query, args := buildUpdateByCode("ABC123", domain.LedgerFields{InvoiceNo: "42"}, nil, now)

	assert.NotContains(t, query, "document_bucket")
	assert.NotContains(t, query, "document_key")
	require.Len(t, args, 8)
	assert.Equal(t, "ABC123", args[7])
}
