package port

import (
	"context"

	"vninvoice/internal/domain"
)

// InvoiceLedger abstracts the local invoice ledger. Records are keyed by the
// invoice code; the core only ever creates, reads, and updates by code.
type InvoiceLedger interface {
	Create(ctx context.Context, rec *domain.InvoiceRecord) error
	GetByCode(ctx context.Context, code string) (*domain.InvoiceRecord, error)
	UpdateByCode(ctx context.Context, code string, fields domain.LedgerFields, doc *domain.DocumentHandle) error
	List(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error)
}
