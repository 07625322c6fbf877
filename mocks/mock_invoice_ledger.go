package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vninvoice/internal/domain"
)

// MockInvoiceLedger is a mock implementation of port.InvoiceLedger.
type MockInvoiceLedger struct {
	mock.Mock
}

func (m *MockInvoiceLedger) Create(ctx context.Context, rec *domain.InvoiceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockInvoiceLedger) GetByCode(ctx context.Context, code string) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceLedger) UpdateByCode(ctx context.Context, code string, fields domain.LedgerFields, doc *domain.DocumentHandle) error {
	args := m.Called(ctx, code, fields, doc)
	return args.Error(0)
}

func (m *MockInvoiceLedger) List(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceRecord), args.Int(1), args.Error(2)
}
