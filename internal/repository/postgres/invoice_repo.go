package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vninvoice/internal/domain"
	"vninvoice/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceLedger.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceLedger {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, rec *domain.InvoiceRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO invoices
		(id, code, ref_id, transaction_id, template_no, pattern, serial, invoice_no,
		 document_bucket, document_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Code, rec.RefID, rec.TransactionID, rec.TemplateNo,
		rec.Pattern, rec.Serial, rec.InvoiceNo,
		rec.DocumentBucket, rec.DocumentKey, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoice
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByCode(ctx context.Context, code string) (*domain.InvoiceRecord, error) {
	var rec domain.InvoiceRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM invoices WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByCode: %w", err)
	}
	return &rec, nil
}

func (r *invoiceRepo) UpdateByCode(ctx context.Context, code string, fields domain.LedgerFields, doc *domain.DocumentHandle) error {
	query, args := buildUpdateByCode(code, fields, doc, time.Now().UTC())

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateByCode: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateByCode rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildUpdateByCode keeps the stored document columns intact when the caller
// has no new handle, so a replace whose PDF fetch came back empty does not
// wipe the previous document.
func buildUpdateByCode(code string, fields domain.LedgerFields, doc *domain.DocumentHandle, now time.Time) (string, []interface{}) {
	query := `UPDATE invoices SET
		ref_id = $1, transaction_id = $2, template_no = $3, pattern = $4,
		serial = $5, invoice_no = $6, updated_at = $7`
	args := []interface{}{
		fields.RefID, fields.TransactionID, fields.TemplateNo, fields.Pattern,
		fields.Serial, fields.InvoiceNo, now,
	}
	if doc != nil {
		query += `, document_bucket = $8, document_key = $9
		WHERE code = $10`
		args = append(args, doc.Bucket, doc.Key, code)
	} else {
		query += `
		WHERE code = $8`
		args = append(args, code)
	}
	return query, args
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices"); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var recs []domain.InvoiceRecord
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return recs, total, nil
}

func isUniqueViolation(err error) bool {
	// pgx wraps pgconn.PgError; code 23505 is unique_violation.
	type coder interface{ SQLState() string }
	var c coder
	return errors.As(err, &c) && c.SQLState() == "23505"
}
