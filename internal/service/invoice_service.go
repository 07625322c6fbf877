package service

import (
	"context"
	"fmt"
	"sync"

	"vninvoice/internal/config"
	"vninvoice/internal/docstore"
	"vninvoice/internal/domain"
	"vninvoice/internal/port"
	"vninvoice/internal/provider"
)

// InvoiceService is the single entry point for invoice operations. It
// resolves the configured vendor adapter and dispatches to it; results and
// classified failures are returned to the caller unchanged.
type InvoiceService interface {
	Issue(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error)
	Replace(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error)
	Preview(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.RemoteResponse, error)
	Cancel(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error)
	ListRemote(ctx context.Context, override *config.ProviderOverride) (*port.RemoteResponse, error)
	GetRemote(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error)
	GetCredential(ctx context.Context, override *config.ProviderOverride) (*domain.CredentialBundle, error)
	ListLedger(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error)
	DocumentURL(ctx context.Context, code string) (string, error)
	DocumentContent(ctx context.Context, code string) ([]byte, error)
}

type invoiceService struct {
	base     config.ProviderConfig
	presign  int64
	registry *provider.Registry
	ledger   port.InvoiceLedger
	store    *docstore.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	base config.ProviderConfig,
	presignExpiry int64,
	registry *provider.Registry,
	ledger port.InvoiceLedger,
	store *docstore.Store,
) InvoiceService {
	return &invoiceService{
		base:     base,
		presign:  presignExpiry,
		registry: registry,
		ledger:   ledger,
		store:    store,
		locks:    map[string]*sync.Mutex{},
	}
}

// lockCode serializes issue/replace on the same invoice code. The ledger
// write path assumes at most one in-flight issuance per code.
func (s *invoiceService) lockCode(code string) func() {
	s.mu.Lock()
	m, ok := s.locks[code]
	if !ok {
		m = &sync.Mutex{}
		s.locks[code] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *invoiceService) resolve(override *config.ProviderOverride) (config.ProviderConfig, port.InvoiceProvider, error) {
	cfg := s.base.Resolve(override)
	adapter, err := s.registry.Resolve(cfg.Provider)
	if err != nil {
		return config.ProviderConfig{}, nil, err
	}
	return cfg, adapter, nil
}

// validate rejects requests that must not reach the vendor: a missing
// invoice code, an empty line set, or aggregate totals that do not add up
// (grand total = subtotal - discount + VAT).
func validate(inv domain.InvoiceRequest) error {
	if inv.Code == "" {
		return domain.ErrMissingInvoiceCode
	}
	if len(inv.Lines) == 0 {
		return fmt.Errorf("%w: at least one product line is required", domain.ErrValidation)
	}
	expected := inv.Subtotal.Sub(inv.DiscountAmount).Add(inv.VATAmount)
	if !inv.GrandTotal.Equal(expected) {
		return fmt.Errorf("%w: grand total %s does not match subtotal - discount + vat (%s)",
			domain.ErrValidation, inv.GrandTotal, expected)
	}
	return nil
}

func (s *invoiceService) Issue(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if err := validate(inv); err != nil {
		return nil, err
	}
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}

	unlock := s.lockCode(inv.Code)
	defer unlock()

	return adapter.Issue(ctx, cfg, inv)
}

func (s *invoiceService) Replace(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if err := validate(inv); err != nil {
		return nil, err
	}
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}

	unlock := s.lockCode(inv.Code)
	defer unlock()

	return adapter.Replace(ctx, cfg, inv)
}

func (s *invoiceService) Preview(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.RemoteResponse, error) {
	if err := validate(inv); err != nil {
		return nil, err
	}
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	return adapter.PreviewDraft(ctx, cfg, inv)
}

func (s *invoiceService) Cancel(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error) {
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	return adapter.Cancel(ctx, cfg, fkey)
}

func (s *invoiceService) ListRemote(ctx context.Context, override *config.ProviderOverride) (*port.RemoteResponse, error) {
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	return adapter.ListIssued(ctx, cfg)
}

func (s *invoiceService) GetRemote(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error) {
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	return adapter.GetIssued(ctx, cfg, fkey)
}

// GetCredential runs the vendor's authentication chain and returns the fresh
// bundle. The caller persists it; the service never stores credentials.
func (s *invoiceService) GetCredential(ctx context.Context, override *config.ProviderOverride) (*domain.CredentialBundle, error) {
	cfg, adapter, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	return adapter.Authenticate(ctx, cfg)
}

func (s *invoiceService) ListLedger(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error) {
	return s.ledger.List(ctx, offset, limit)
}

// documentHandle looks up the stored handle for an invoice code. A record
// without a document key means no PDF was ever stored.
func (s *invoiceService) documentHandle(ctx context.Context, code string) (domain.DocumentHandle, error) {
	rec, err := s.ledger.GetByCode(ctx, code)
	if err != nil {
		return domain.DocumentHandle{}, err
	}
	if rec.DocumentKey == "" {
		return domain.DocumentHandle{}, domain.ErrNotFound
	}
	return domain.DocumentHandle{Bucket: rec.DocumentBucket, Key: rec.DocumentKey}, nil
}

// DocumentURL returns a presigned download URL for a stored invoice PDF.
func (s *invoiceService) DocumentURL(ctx context.Context, code string) (string, error) {
	handle, err := s.documentHandle(ctx, code)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, handle, s.presign)
}

// DocumentContent returns the stored invoice PDF bytes.
func (s *invoiceService) DocumentContent(ctx context.Context, code string) ([]byte, error) {
	handle, err := s.documentHandle(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.store.Fetch(ctx, handle)
}
