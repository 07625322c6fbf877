package domain

// LineType classifies an invoice product line. Values follow the vendor
// conventions for ItemType.
type LineType int

const (
	LineTypeOrdinary      LineType = 1
	LineTypePromotion     LineType = 2
	LineTypeTradeDiscount LineType = 3
	LineTypeNote          LineType = 4
	LineTypeTransport     LineType = 5
)

// Numbered reports whether lines of this type carry a sequence-order number.
// Trade-discount and note lines do not.
func (t LineType) Numbered() bool {
	return t == LineTypeOrdinary || t == LineTypePromotion
}

// Valid reports whether the value is a known line type.
func (t LineType) Valid() bool {
	return t >= LineTypeOrdinary && t <= LineTypeTransport
}

// IssueKind selects the issuance channel for vendors that distinguish them.
type IssueKind string

const (
	// IssueKindStandard issues through the ordinary invoice endpoint.
	IssueKindStandard IssueKind = "standard"
	// IssueKindCashRegister issues through the cash-register (POS) endpoint.
	IssueKindCashRegister IssueKind = "cash_register"
)

// Provider identifiers known to the registry.
const (
	ProviderMegabiz = "megabiz"
	ProviderMisa    = "misa"
)
