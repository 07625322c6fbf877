// Package misa implements the invoice provider adapter for the Misa
// integration API. Payloads are JSON; document operations require a bearer
// token obtained through a staged authentication chain.
package misa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/port"
	"vninvoice/internal/provider"
)

const (
	epInvoice  = "/api/integration/invoice"
	epPreview  = "/api/integration/invoice/unpublishview"
	epStatus   = "/api/integration/invoice/status"
	epCancel   = "/api/integration/invoice/cancel"
	epList     = "/api/integration/invoice/list"
	epDownload = "/api/integration/invoice/Download?invoiceWithCode=true&downloadDataType=pdf"
)

// Adapter is the Misa vendor adapter.
type Adapter struct {
	deps     provider.Deps
	now      func() time.Time
	newRefID func() string
}

// New creates the Misa adapter; registered under domain.ProviderMisa.
func New(deps provider.Deps) port.InvoiceProvider {
	return &Adapter{
		deps:     deps,
		now:      time.Now,
		newRefID: func() string { return uuid.New().String() },
	}
}

// envelope is the vendor's outer response shape for invoice operations.
type envelope struct {
	Data struct {
		Success              bool   `json:"success"`
		Data                 string `json:"data"`
		PublishInvoiceResult string `json:"publishInvoiceResult"`
	} `json:"data"`
}

// publishResult is one element of the publishInvoiceResult JSON string. The
// vendor types error codes loosely; a string, a number, or null may arrive.
type publishResult struct {
	ErrorCode            json.RawMessage `json:"ErrorCode"`
	DescriptionErrorCode json.RawMessage `json:"DescriptionErrorCode"`
	RefID                string          `json:"RefID"`
	TransactionID        string          `json:"TransactionID"`
	InvTemplateNo        string          `json:"InvTemplateNo"`
	InvSeries            string          `json:"InvSeries"`
	InvNo                string          `json:"InvNo"`
}

// codePresent reports whether a loosely typed error code carries a value.
// Absent, null, empty and zero codes all mean no error.
func codePresent(raw json.RawMessage) bool {
	switch strings.Trim(string(raw), `"`) {
	case "", "null", "0":
		return false
	}
	return true
}

// downloadEntry is one element of the Download response's data JSON string.
type downloadEntry struct {
	Data string `json:"Data"`
}

func bearerHeaders(cfg config.ProviderConfig) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + cfg.Credential.Token,
	}
}

// Authenticate runs the staged credential chain and returns the assembled
// bundle for the caller to persist.
func (a *Adapter) Authenticate(ctx context.Context, cfg config.ProviderConfig) (*domain.CredentialBundle, error) {
	return a.authenticate(ctx, cfg)
}

func (a *Adapter) invDate() string {
	return a.now().Format("2006-01-02")
}

// PreviewDraft renders the unpublished invoice server-side.
func (a *Adapter) PreviewDraft(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.RemoteResponse, error) {
	payloads := buildPayload(cfg, inv, a.newRefID(), a.invDate(), nil)
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epPreview, bearerHeaders(cfg), payloads[0])
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// Issue publishes the invoice, fetches the issued PDF, and records the
// vendor-assigned identifiers in the local ledger.
func (a *Adapter) Issue(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if inv.Code == "" {
		return nil, domain.ErrMissingInvoiceCode
	}
	payloads := buildPayload(cfg, inv, a.newRefID(), a.invDate(), nil)
	return a.publish(ctx, cfg, inv.Code, payloads)
}

// Replace publishes a superseding invoice referencing the original's
// template, series, and number from the local ledger. A record with empty
// series or invoice number is rejected before any remote call; an absent
// record is a not-found.
func (a *Adapter) Replace(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	if inv.Code == "" {
		return nil, domain.ErrMissingInvoiceCode
	}

	record, err := a.deps.Ledger.Lookup(ctx, inv.Code)
	if err != nil {
		return nil, err
	}
	if record.Serial == "" || record.InvoiceNo == "" {
		return nil, fmt.Errorf("replace %s: %w", inv.Code, domain.ErrIncompleteRecord)
	}

	templateNo := record.TemplateNo
	if templateNo == "" {
		templateNo = "1"
	}

	replace := &replaceContext{
		TemplateNo: templateNo,
		// The stored series carries a leading template-form digit the
		// reference fields must not repeat.
		Series:    record.Serial[1:],
		InvoiceNo: record.InvoiceNo,
		Date:      a.invDate(),
	}

	payloads := buildPayload(cfg, inv, a.newRefID(), a.invDate(), replace)
	return a.publish(ctx, cfg, inv.Code, payloads)
}

// publish submits a payload array to the invoice endpoint and reconciles the
// result: parse the publish outcome, pull the PDF, upsert the ledger.
func (a *Adapter) publish(ctx context.Context, cfg config.ProviderConfig, code string, payloads []payload) (*port.IssueOutput, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epInvoice, bearerHeaders(cfg), map[string]any{
		"SignType":           2,
		"InvoiceData":        payloads,
		"PublishInvoiceData": nil,
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := resp.Decode(&env); err != nil {
		return nil, err
	}
	if !env.Data.Success {
		return nil, &provider.RemoteRejectionError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var results []publishResult
	if err := json.Unmarshal([]byte(env.Data.PublishInvoiceResult), &results); err != nil {
		return nil, &provider.MalformedResponseError{Err: err}
	}
	if len(results) == 0 {
		return nil, &provider.MalformedResponseError{Err: fmt.Errorf("empty publish result")}
	}

	result := results[0]
	if codePresent(result.ErrorCode) || codePresent(result.DescriptionErrorCode) {
		return nil, &provider.RemoteRejectionError{StatusCode: resp.StatusCode, Body: env.Data.PublishInvoiceResult}
	}

	doc, err := a.FetchDocument(ctx, cfg, result.TransactionID)
	if err != nil {
		return nil, err
	}

	record, err := a.deps.Ledger.Upsert(ctx, code, domain.LedgerFields{
		RefID:         result.RefID,
		TransactionID: result.TransactionID,
		TemplateNo:    result.InvTemplateNo,
		Pattern:       cfg.Pattern,
		Serial:        result.InvSeries,
		InvoiceNo:     result.InvNo,
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

// Cancel voids an issued invoice by its transaction key.
func (a *Adapter) Cancel(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epCancel, bearerHeaders(cfg), []string{fkey})
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// ListIssued returns the vendor's issued-invoice listing.
func (a *Adapter) ListIssued(ctx context.Context, cfg config.ProviderConfig) (*port.RemoteResponse, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epList, bearerHeaders(cfg), nil)
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// GetIssued returns the vendor's status record for one issued invoice.
func (a *Adapter) GetIssued(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epStatus, bearerHeaders(cfg), []string{fkey})
	if err != nil {
		return nil, err
	}
	return &port.RemoteResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// FetchDocument downloads the issued invoice PDF and stores it. Returns
// (nil, nil) when the vendor reports no document or any layer of the nested
// payload does not decode.
func (a *Adapter) FetchDocument(ctx context.Context, cfg config.ProviderConfig, fkey string) (*domain.DocumentHandle, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epDownload, bearerHeaders(cfg), []string{fkey})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := resp.Decode(&env); err != nil {
		return nil, err
	}
	if !env.Data.Success {
		return nil, nil
	}

	var entries []downloadEntry
	if err := json.Unmarshal([]byte(env.Data.Data), &entries); err != nil || len(entries) == 0 {
		return nil, nil
	}
	return a.deps.Store.SaveBase64(ctx, fkey, entries[0].Data)
}
