package misa

import (
	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/vnwords"
)

// payload is one publishable invoice in the vendor's integration format.
// The Org* reference fields are only present on the replace variant.
type payload struct {
	RefID                       string        `json:"RefID"`
	InvSeries                   string        `json:"InvSeries"`
	InvoiceName                 string        `json:"InvoiceName"`
	IsInvoiceCalculatingMachine bool          `json:"IsInvoiceCalculatingMachine"`
	InvDate                     string        `json:"InvDate"`
	CurrencyCode                string        `json:"CurrencyCode"`
	ExchangeRate                float64       `json:"ExchangeRate"`
	PaymentMethodName           string        `json:"PaymentMethodName"`
	BuyerLegalName              string        `json:"BuyerLegalName"`
	BuyerTaxCode                string        `json:"BuyerTaxCode"`
	BuyerAddress                string        `json:"BuyerAddress"`
	BuyerCode                   string        `json:"BuyerCode"`
	BuyerFullName               string        `json:"BuyerFullName"`
	BuyerPhoneNumber            string        `json:"BuyerPhoneNumber"`
	BuyerEmail                  string        `json:"BuyerEmail"`
	ContactName                 string        `json:"ContactName"`
	TotalSaleAmountOC           float64       `json:"TotalSaleAmountOC"`
	TotalSaleAmount             float64       `json:"TotalSaleAmount"`
	TotalDiscountAmountOC       float64       `json:"TotalDiscountAmountOC"`
	TotalDiscountAmount         float64       `json:"TotalDiscountAmount"`
	TotalAmountWithoutVATOC     float64       `json:"TotalAmountWithoutVATOC"`
	TotalAmountWithoutVAT       float64       `json:"TotalAmountWithoutVAT"`
	TotalVATAmountOC            float64       `json:"TotalVATAmountOC"`
	TotalVATAmount              float64       `json:"TotalVATAmount"`
	TotalAmountOC               float64       `json:"TotalAmountOC"`
	TotalAmount                 float64       `json:"TotalAmount"`
	TotalAmountInWords          string        `json:"TotalAmountInWords"`
	IsTaxReduction43            bool          `json:"IsTaxReduction43"`
	OriginalInvoiceDetail       []lineItem    `json:"OriginalInvoiceDetail"`
	TaxRateInfo                 []taxRateInfo `json:"TaxRateInfo"`

	ReferenceType    *int    `json:"ReferenceType,omitempty"`
	OrgInvoiceType   *int    `json:"OrgInvoiceType,omitempty"`
	OrgInvTemplateNo *string `json:"OrgInvTemplateNo,omitempty"`
	OrgInvSeries     *string `json:"OrgInvSeries,omitempty"`
	OrgInvNo         *string `json:"OrgInvNo,omitempty"`
	OrgInvDate       *string `json:"OrgInvDate,omitempty"`
}

// lineItem is one detail row. SortOrder is null for trade-discount and note
// rows; numbered rows use their document position.
type lineItem struct {
	ItemType           int     `json:"ItemType"`
	LineNumber         int     `json:"LineNumber"`
	SortOrder          *int    `json:"SortOrder"`
	ItemCode           string  `json:"ItemCode"`
	ItemName           string  `json:"ItemName"`
	UnitName           string  `json:"UnitName"`
	Quantity           float64 `json:"Quantity"`
	UnitPrice          float64 `json:"UnitPrice"`
	DiscountRate       float64 `json:"DiscountRate"`
	DiscountAmountOC   float64 `json:"DiscountAmountOC"`
	DiscountAmount     float64 `json:"DiscountAmount"`
	AmountOC           float64 `json:"AmountOC"`
	Amount             float64 `json:"Amount"`
	AmountWithoutVATOC float64 `json:"AmountWithoutVATOC"`
	VATRateName        string  `json:"VATRateName"`
	VATAmountOC        float64 `json:"VATAmountOC"`
	VATAmount          float64 `json:"VATAmount"`
}

type taxRateInfo struct {
	VATRateName        string  `json:"VATRateName"`
	AmountWithoutVATOC float64 `json:"AmountWithoutVATOC"`
	VATAmountOC        float64 `json:"VATAmountOC"`
}

// replaceContext carries the original document's key fields for the replace
// variant.
type replaceContext struct {
	TemplateNo string
	Series     string
	InvoiceNo  string
	Date       string
}

// buildPayload assembles the one-element payload array the integration API
// expects. The replace context, when present, adds the Org* reference fields
// alongside the otherwise unchanged invoice body.
func buildPayload(cfg config.ProviderConfig, inv domain.InvoiceRequest, refID, invDate string, replace *replaceContext) []payload {
	words, err := vnwords.Currency(inv.GrandTotal.String())
	if err != nil {
		words = ""
	}

	currency := inv.CurrencyCode
	if currency == "" {
		currency = "VND"
	}

	p := payload{
		RefID:                       refID,
		InvSeries:                   cfg.Serial,
		InvoiceName:                 "Hóa đơn giá trị gia tăng",
		IsInvoiceCalculatingMachine: true,
		InvDate:                     invDate,
		CurrencyCode:                currency,
		ExchangeRate:                1,
		PaymentMethodName:           inv.PaymentMethod,
		BuyerLegalName:              inv.BuyerName,
		BuyerTaxCode:                inv.CustomerTaxCode,
		BuyerAddress:                inv.CustomerAddress,
		BuyerCode:                   inv.CustomerCode,
		BuyerFullName:               inv.CustomerName,
		BuyerPhoneNumber:            inv.CustomerPhone,
		BuyerEmail:                  inv.CustomerEmail,
		ContactName:                 inv.CustomerName,
		TotalSaleAmountOC:           inv.Subtotal.InexactFloat64(),
		TotalSaleAmount:             inv.Subtotal.InexactFloat64(),
		TotalDiscountAmountOC:       inv.DiscountAmount.InexactFloat64(),
		TotalDiscountAmount:         inv.DiscountAmount.InexactFloat64(),
		TotalAmountWithoutVATOC:     inv.Subtotal.InexactFloat64(),
		TotalAmountWithoutVAT:       inv.Subtotal.InexactFloat64(),
		TotalVATAmountOC:            inv.VATAmount.InexactFloat64(),
		TotalVATAmount:              inv.VATAmount.InexactFloat64(),
		TotalAmountOC:               inv.GrandTotal.InexactFloat64(),
		TotalAmount:                 inv.GrandTotal.InexactFloat64(),
		TotalAmountInWords:          words,
		OriginalInvoiceDetail:       buildLines(inv.Lines),
		TaxRateInfo: []taxRateInfo{
			{
				VATRateName:        inv.VATRate.String() + "%",
				AmountWithoutVATOC: inv.VATAmount.InexactFloat64(),
				VATAmountOC:        inv.VATAmount.InexactFloat64(),
			},
		},
	}

	if replace != nil {
		one := 1
		p.ReferenceType = &one
		p.OrgInvoiceType = &one
		p.OrgInvTemplateNo = &replace.TemplateNo
		p.OrgInvSeries = &replace.Series
		p.OrgInvNo = &replace.InvoiceNo
		p.OrgInvDate = &replace.Date
	}

	return []payload{p}
}

func buildLines(lines []domain.ProductLine) []lineItem {
	items := make([]lineItem, 0, len(lines))
	for i, line := range lines {
		index := i + 1
		lineType := line.Type
		if !lineType.Valid() {
			lineType = domain.LineTypeOrdinary
		}

		var sortOrder *int
		if lineType.Numbered() {
			n := index
			sortOrder = &n
		}

		items = append(items, lineItem{
			ItemType:           int(lineType),
			LineNumber:         index,
			SortOrder:          sortOrder,
			ItemCode:           line.Code,
			ItemName:           line.Name,
			UnitName:           line.Unit,
			Quantity:           line.Quantity.InexactFloat64(),
			UnitPrice:          line.UnitPrice.InexactFloat64(),
			DiscountRate:       line.DiscountRate.InexactFloat64(),
			DiscountAmountOC:   line.DiscountAmount.InexactFloat64(),
			DiscountAmount:     line.DiscountAmount.InexactFloat64(),
			AmountOC:           line.Total.InexactFloat64(),
			Amount:             line.Total.InexactFloat64(),
			AmountWithoutVATOC: line.Amount.InexactFloat64(),
			VATRateName:        line.VATRate.String() + "%",
			VATAmountOC:        line.VATAmount.InexactFloat64(),
			VATAmount:          line.VATAmount.InexactFloat64(),
		})
	}
	return items
}
