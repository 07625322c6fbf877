package port

import (
	"context"
	"encoding/json"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
)

// RemoteResponse is a vendor response passed through to the caller: the HTTP
// status and the decoded body, opaque beyond the fields the adapter inspected.
type RemoteResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// IssueOutput is the result of a successful issue or replace: the raw vendor
// response, the ledger record written, and the stored PDF handle when the
// vendor returned one.
type IssueOutput struct {
	Response *RemoteResponse        `json:"response"`
	Record   *domain.InvoiceRecord  `json:"record"`
	Document *domain.DocumentHandle `json:"document,omitempty"`
}

// InvoiceProvider is the capability surface every vendor adapter implements.
// Config is passed by value into each call and never retained; a refreshed
// CredentialBundle is returned from Authenticate for the caller to persist.
type InvoiceProvider interface {
	Authenticate(ctx context.Context, cfg config.ProviderConfig) (*domain.CredentialBundle, error)
	PreviewDraft(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*RemoteResponse, error)
	Issue(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*IssueOutput, error)
	Replace(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*IssueOutput, error)
	Cancel(ctx context.Context, cfg config.ProviderConfig, fkey string) (*RemoteResponse, error)
	ListIssued(ctx context.Context, cfg config.ProviderConfig) (*RemoteResponse, error)
	GetIssued(ctx context.Context, cfg config.ProviderConfig, fkey string) (*RemoteResponse, error)
	FetchDocument(ctx context.Context, cfg config.ProviderConfig, fkey string) (*domain.DocumentHandle, error)
}
