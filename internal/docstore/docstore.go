// Package docstore persists retrieved invoice PDFs under a deterministic
// year/month path and hands back storage handles.
package docstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"vninvoice/internal/domain"
	"vninvoice/internal/port"
)

// Store writes invoice PDFs to object storage under
// invoices/<year>/<month>/<code>.pdf.
type Store struct {
	storage port.ObjectStorage
	bucket  string
	now     func() time.Time
}

// New creates a Store over the given object storage and bucket.
func New(storage port.ObjectStorage, bucket string) *Store {
	return &Store{storage: storage, bucket: bucket, now: time.Now}
}

// NewWithClock creates a Store with a fixed clock (for tests).
func NewWithClock(storage port.ObjectStorage, bucket string, now func() time.Time) *Store {
	return &Store{storage: storage, bucket: bucket, now: now}
}

// Key returns the storage key for an invoice code at the current time.
func (s *Store) Key(code string) string {
	t := s.now().UTC()
	return fmt.Sprintf("invoices/%04d/%02d/%s.pdf", t.Year(), int(t.Month()), code)
}

// Save stores the PDF bytes and returns a handle to them.
func (s *Store) Save(ctx context.Context, code string, pdf []byte) (*domain.DocumentHandle, error) {
	key := s.Key(code)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(pdf),
		ContentType: "application/pdf",
		Size:        int64(len(pdf)),
	})
	if err != nil {
		return nil, fmt.Errorf("storing invoice pdf: %w", err)
	}
	return &domain.DocumentHandle{Bucket: s.bucket, Key: key, Location: out.Location}, nil
}

// SaveBase64 decodes a vendor base64 payload and stores it. A payload that
// fails to decode means no document is available; that is not an error, the
// ledger entry is simply written without a handle.
func (s *Store) SaveBase64(ctx context.Context, code, encoded string) (*domain.DocumentHandle, error) {
	pdf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(pdf) == 0 {
		return nil, nil
	}
	return s.Save(ctx, code, pdf)
}

// Fetch reads a stored document back from object storage.
func (s *Store) Fetch(ctx context.Context, handle domain.DocumentHandle) ([]byte, error) {
	pdf, err := s.storage.Download(ctx, handle.Bucket, handle.Key)
	if err != nil {
		return nil, fmt.Errorf("fetching invoice pdf: %w", err)
	}
	return pdf, nil
}

// PresignedURL returns a time-limited download URL for a stored document.
func (s *Store) PresignedURL(ctx context.Context, handle domain.DocumentHandle, expirySeconds int64) (string, error) {
	return s.storage.GetPresignedURL(ctx, handle.Bucket, handle.Key, expirySeconds)
}
