package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vninvoice/internal/domain"
	"vninvoice/mocks"
)

func TestUpsertCreatesOnFirstIssue(t *testing.T) {
	repo := new(mocks.MockInvoiceLedger)
	repo.On("GetByCode", mock.Anything, "INV-001").Return(nil, domain.ErrNotFound)

	var created *domain.InvoiceRecord
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.InvoiceRecord)
	}).Return(nil)

	doc := &domain.DocumentHandle{Bucket: "b", Key: "invoices/2025/06/FK1.pdf"}
	rec, err := NewSync(repo).Upsert(context.Background(), "INV-001", domain.LedgerFields{
		TransactionID: "FK1",
		Serial:        "C25TAA",
	}, doc)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, rec, created)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.ID.String())
	assert.Equal(t, "INV-001", rec.Code)
	assert.Equal(t, "FK1", rec.TransactionID)
	assert.Equal(t, "invoices/2025/06/FK1.pdf", rec.DocumentKey)
	repo.AssertExpectations(t)
}

func TestUpsertUpdatesExistingRecord(t *testing.T) {
	existing := &domain.InvoiceRecord{Code: "INV-001", TransactionID: "OLD"}

	repo := new(mocks.MockInvoiceLedger)
	repo.On("GetByCode", mock.Anything, "INV-001").Return(existing, nil)
	repo.On("UpdateByCode", mock.Anything, "INV-001", mock.Anything, (*domain.DocumentHandle)(nil)).Return(nil)

	rec, err := NewSync(repo).Upsert(context.Background(), "INV-001", domain.LedgerFields{
		TransactionID: "NEW",
		InvoiceNo:     "00000043",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "NEW", rec.TransactionID)
	assert.Equal(t, "00000043", rec.InvoiceNo)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpsertWithoutDocumentKeepsStoredHandle(t *testing.T) {
	existing := &domain.InvoiceRecord{
		Code:           "INV-001",
		InvoiceNo:      "00000042",
		DocumentBucket: "invoice-bucket",
		DocumentKey:    "invoices/2025/06/FK1.pdf",
	}

	repo := new(mocks.MockInvoiceLedger)
	repo.On("GetByCode", mock.Anything, "INV-001").Return(existing, nil)
	repo.On("UpdateByCode", mock.Anything, "INV-001", mock.Anything, (*domain.DocumentHandle)(nil)).Return(nil)

	rec, err := NewSync(repo).Upsert(context.Background(), "INV-001", domain.LedgerFields{
		InvoiceNo: "00000043",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "00000043", rec.InvoiceNo)
	assert.Equal(t, "invoice-bucket", rec.DocumentBucket)
	assert.Equal(t, "invoices/2025/06/FK1.pdf", rec.DocumentKey)
}

func TestUpsertPropagatesLookupFailure(t *testing.T) {
	boom := errors.New("db down")

	repo := new(mocks.MockInvoiceLedger)
	repo.On("GetByCode", mock.Anything, "INV-001").Return(nil, boom)

	_, err := NewSync(repo).Upsert(context.Background(), "INV-001", domain.LedgerFields{}, nil)
	assert.ErrorIs(t, err, boom)
}
