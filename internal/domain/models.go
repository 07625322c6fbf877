package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceTemplate is a vendor-assigned template registration (name, pattern, serial).
type InvoiceTemplate struct {
	Name    string `mapstructure:"name" json:"name"`
	Pattern string `mapstructure:"pattern" json:"pattern"`
	Serial  string `mapstructure:"serial" json:"serial"`
}

// ProductLine is a single invoice line. Amount fields follow the tax-office
// conventions: Total is the line amount before tax and discount
// (Quantity * UnitPrice), Amount is the line amount after discount.
type ProductLine struct {
	Type           LineType        `json:"type"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
	Amount         decimal.Decimal `json:"amount"`
}

// InvoiceRequest is the canonical invoice data handed to a provider adapter.
// Aggregate amounts are trusted as computed by the caller; the payload
// builders never re-derive them.
type InvoiceRequest struct {
	Code            string          `json:"code"`
	Kind            IssueKind       `json:"kind"`
	CustomerID      string          `json:"customer_id"`
	CustomerCode    string          `json:"customer_code"`
	BuyerName       string          `json:"buyer_name"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	CustomerTaxCode string          `json:"customer_tax_code"`
	CustomerEmail   string          `json:"customer_email"`
	StoreID         string          `json:"store_id"`
	StoreName       string          `json:"store_name"`
	PaymentMethod   string          `json:"payment_method"`
	CurrencyCode    string          `json:"currency_code"`
	Lines           []ProductLine   `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// CredentialBundle is the product of a successful authentication run against a
// vendor. Fields beyond Token are only populated by staged-auth vendors.
type CredentialBundle struct {
	Token          string    `json:"token"`
	AccessToken    string    `json:"access_token"`
	SubscriberID   string    `json:"subscriber_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the bundle is stale at the given instant. A zero
// expiry never expires (simple-token vendors derive credentials per call).
func (b CredentialBundle) Expired(now time.Time) bool {
	return !b.ExpiresAt.IsZero() && now.After(b.ExpiresAt)
}

// InvoiceRecord is a local ledger entry for an issued invoice. Code is the
// unique business key; the remaining identifiers are vendor-assigned. Document
// fields stay empty until a PDF has been retrieved and stored.
type InvoiceRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	RefID          string    `db:"ref_id" json:"ref_id"`
	TransactionID  string    `db:"transaction_id" json:"transaction_id"`
	TemplateNo     string    `db:"template_no" json:"template_no"`
	Pattern        string    `db:"pattern" json:"pattern"`
	Serial         string    `db:"serial" json:"serial"`
	InvoiceNo      string    `db:"invoice_no" json:"invoice_no"`
	DocumentBucket string    `db:"document_bucket" json:"document_bucket,omitempty"`
	DocumentKey    string    `db:"document_key" json:"document_key,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// LedgerFields carries the vendor-assigned identifiers written to the ledger
// after a successful issue or replace.
type LedgerFields struct {
	RefID         string
	TransactionID string
	TemplateNo    string
	Pattern       string
	Serial        string
	InvoiceNo     string
}

// DocumentHandle points at a stored invoice PDF.
type DocumentHandle struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Location string `json:"location,omitempty"`
}
