// Package megabiz implements the invoice provider adapter for the Megabiz
// tt78 API. Documents travel as XML embedded in a JSON envelope; every call
// is authenticated with a per-call derived signature header plus the
// company's tax code.
package megabiz

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/port"
	"vninvoice/internal/provider"
)

const (
	epPreview       = "/api/tt78/hoadon/xemhoadon"
	epIssueStandard = "/api/tt78/hoadon/xuathoadon"
	epIssueRegister = "/api/tt78/hoadonmtt/xuathoadon"
	epReplace       = "/api/tt78/business/replaceInv"
	epCancel        = "/api/tt78/business/cancelInv"
	epList          = "/api/tt78/hoadon/invoicesbydate"
	epGet           = "/api/tt78/business/invoiceinfo"
	epDocument      = "/api/tt78/business/invoicebykey"
)

// Adapter is the Megabiz vendor adapter.
type Adapter struct {
	deps provider.Deps
	now  func() time.Time
}

// New creates the Megabiz adapter; registered under domain.ProviderMegabiz.
func New(deps provider.Deps) port.InvoiceProvider {
	return &Adapter{deps: deps, now: time.Now}
}

// issueResponse is the vendor envelope for submit-style calls.
type issueResponse struct {
	Success bool            `json:"success"`
	Data    []issuedInvoice `json:"data"`
}

type issuedInvoice struct {
	Fkey    string `json:"fkey"`
	Pattern string `json:"pattern"`
	Serial  string `json:"serial"`
}

// documentResponse carries a base64 PDF payload.
type documentResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

// authHeader derives the per-call signature: base64(username:password:nonce)
// with a fresh 16-byte hex nonce.
func authHeader(cfg config.ProviderConfig) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating auth nonce: %w", err)
	}
	raw := fmt.Sprintf("%s:%s:%s", cfg.Username, cfg.Password, hex.EncodeToString(nonce))
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

func (a *Adapter) headers(cfg config.ProviderConfig) (map[string]string, error) {
	authen, err := authHeader(cfg)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authentication": authen,
		"taxcode":        cfg.TaxCode,
	}, nil
}

// Authenticate derives a signature bundle. Megabiz has no token chain; the
// signature is recomputed per call, so the bundle never expires.
func (a *Adapter) Authenticate(_ context.Context, cfg config.ProviderConfig) (*domain.CredentialBundle, error) {
	authen, err := authHeader(cfg)
	if err != nil {
		return nil, err
	}
	return &domain.CredentialBundle{Token: authen}, nil
}

func (a *Adapter) arisingDate() string {
	return a.now().Format("02/01/2006")
}

func (a *Adapter) post(ctx context.Context, cfg config.ProviderConfig, endpoint string, payload any) (*provider.Response, error) {
	headers, err := a.headers(cfg)
	if err != nil {
		return nil, err
	}
	return a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+endpoint, headers, payload)
}

func (a *Adapter) get(ctx context.Context, cfg config.ProviderConfig, endpoint string, query url.Values) (*provider.Response, error) {
	headers, err := a.headers(cfg)
	if err != nil {
		return nil, err
	}
	return a.deps.Transport.Call(ctx, http.MethodGet, cfg.Host+endpoint+"?"+query.Encode(), headers, nil)
}

// PreviewDraft renders an unissued invoice server-side and returns the vendor
// response (a draft PDF payload) untouched.
func (a *Adapter) PreviewDraft(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.RemoteResponse, error) {
	xmlData, err := buildCreateXML(inv, a.arisingDate())
	if err != nil {
		return nil, err
	}
	resp, err := a.post(ctx, cfg, epPreview, map[string]any{
		"xmlData": xmlData,
		"pattern": cfg.Pattern,
		"serial":  cfg.Serial,
	})
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// Issue submits the invoice, fetches the issued PDF, and records the result
// in the local ledger. The cash-register endpoint is used unless the request
// asks for the standard channel.
func (a *Adapter) Issue(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if inv.Code == "" {
		return nil, domain.ErrMissingInvoiceCode
	}
	xmlData, err := buildCreateXML(inv, a.arisingDate())
	if err != nil {
		return nil, err
	}

	endpoint := epIssueRegister
	if inv.Kind == domain.IssueKindStandard {
		endpoint = epIssueStandard
	}

	resp, err := a.post(ctx, cfg, endpoint, map[string]any{
		"xmlData": xmlData,
		"pattern": cfg.Pattern,
		"serial":  cfg.Serial,
	})
	if err != nil {
		return nil, err
	}
	return a.reconcile(ctx, cfg, inv.Code, resp)
}

// Replace supersedes a previously issued invoice. The invoice code must
// already exist in the local ledger; otherwise no remote call is made.
func (a *Adapter) Replace(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if inv.Code == "" {
		return nil, domain.ErrMissingInvoiceCode
	}
	if _, err := a.deps.Ledger.Lookup(ctx, inv.Code); err != nil {
		return nil, err
	}

	xmlData, err := buildReplaceXML(inv, a.arisingDate())
	if err != nil {
		return nil, err
	}

	resp, err := a.post(ctx, cfg, epReplace, map[string]any{
		"xmlData": xmlData,
		"pattern": cfg.Pattern,
		"serial":  cfg.Serial,
	})
	if err != nil {
		return nil, err
	}
	return a.reconcile(ctx, cfg, inv.Code, resp)
}

// reconcile parses a submit response, pulls the issued PDF, and upserts the
// ledger entry. A missing or undecodable PDF is not fatal; the ledger entry
// is written without a document handle.
func (a *Adapter) reconcile(ctx context.Context, cfg config.ProviderConfig, code string, resp *provider.Response) (*port.IssueOutput, error) {
	var parsed issueResponse
	if err := resp.Decode(&parsed); err != nil {
		return nil, err
	}
	if !parsed.Success || len(parsed.Data) == 0 {
		return nil, &provider.RemoteRejectionError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	issued := parsed.Data[0]
	doc, err := a.FetchDocument(ctx, cfg, issued.Fkey)
	if err != nil {
		return nil, err
	}

	record, err := a.deps.Ledger.Upsert(ctx, code, domain.LedgerFields{
		TransactionID: issued.Fkey,
		Pattern:       issued.Pattern,
		Serial:        issued.Serial,
	}, doc)
	if err != nil {
		return nil, err
	}

	return &port.IssueOutput{
		Response: &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body},
		Record:   record,
		Document: doc,
	}, nil
}

// Cancel voids an issued invoice by its Fkey.
func (a *Adapter) Cancel(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	resp, err := a.post(ctx, cfg, epCancel, map[string]any{
		"pattern": cfg.Pattern,
		"serial":  cfg.Serial,
		"fkey":    fkey,
	})
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// ListIssued returns the vendor's issued-invoice listing for the configured
// pattern and serial.
func (a *Adapter) ListIssued(ctx context.Context, cfg config.ProviderConfig) (*port.RemoteResponse, error) {
	resp, err := a.post(ctx, cfg, epList, map[string]any{
		"pattern": cfg.Pattern,
		"serial":  cfg.Serial,
	})
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// GetIssued returns the vendor's record of one issued invoice.
func (a *Adapter) GetIssued(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	query := url.Values{}
	query.Set("pattern", cfg.Pattern)
	query.Set("serial", cfg.Serial)
	query.Set("fkey", fkey)

	resp, err := a.get(ctx, cfg, epGet, query)
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// FetchDocument downloads the issued invoice PDF and stores it. Returns
// (nil, nil) when the vendor reports no document or the payload does not
// decode.
func (a *Adapter) FetchDocument(ctx context.Context, cfg config.ProviderConfig, fkey string) (*domain.DocumentHandle, error) {
	query := url.Values{}
	query.Set("pattern", cfg.Pattern)
	query.Set("serial", cfg.Serial)
	query.Set("fkey", fkey)

	resp, err := a.get(ctx, cfg, epDocument, query)
	if err != nil {
		return nil, err
	}

	var parsed documentResponse
	if err := resp.Decode(&parsed); err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, nil
	}
	return a.deps.Store.SaveBase64(ctx, fkey, parsed.Data)
}
