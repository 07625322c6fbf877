// Package ledger reconciles vendor-reported invoice identifiers into the
// local invoice ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vninvoice/internal/domain"
	"vninvoice/internal/port"
)

// Sync writes issue/replace outcomes into the ledger. Creation metadata of an
// existing record is never touched by an update.
type Sync struct {
	repo port.InvoiceLedger
}

// NewSync creates a Sync over the given ledger repository.
func NewSync(repo port.InvoiceLedger) *Sync {
	return &Sync{repo: repo}
}

// Lookup returns the ledger record for an invoice code.
func (s *Sync) Lookup(ctx context.Context, code string) (*domain.InvoiceRecord, error) {
	return s.repo.GetByCode(ctx, code)
}

// Upsert creates the ledger record for code on first issue, or mutates the
// matched record's identifier and document fields in place on replace.
func (s *Sync) Upsert(ctx context.Context, code string, fields domain.LedgerFields, doc *domain.DocumentHandle) (*domain.InvoiceRecord, error) {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("ledger lookup for %s: %w", code, err)
		}
		rec := &domain.InvoiceRecord{
			ID:            uuid.New(),
			Code:          code,
			RefID:         fields.RefID,
			TransactionID: fields.TransactionID,
			TemplateNo:    fields.TemplateNo,
			Pattern:       fields.Pattern,
			Serial:        fields.Serial,
			InvoiceNo:     fields.InvoiceNo,
		}
		if doc != nil {
			rec.DocumentBucket = doc.Bucket
			rec.DocumentKey = doc.Key
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("ledger create for %s: %w", code, err)
		}
		return rec, nil
	}

	if err := s.repo.UpdateByCode(ctx, code, fields, doc); err != nil {
		return nil, fmt.Errorf("ledger update for %s: %w", code, err)
	}

	existing.RefID = fields.RefID
	existing.TransactionID = fields.TransactionID
	existing.TemplateNo = fields.TemplateNo
	existing.Pattern = fields.Pattern
	existing.Serial = fields.Serial
	existing.InvoiceNo = fields.InvoiceNo
	if doc != nil {
		existing.DocumentBucket = doc.Bucket
		existing.DocumentKey = doc.Key
	}
	return existing, nil
}
