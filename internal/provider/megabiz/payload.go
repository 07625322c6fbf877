package megabiz

import (
	"encoding/xml"
	"fmt"

	"vninvoice/internal/domain"
	"vninvoice/internal/vnwords"
)

// cdataString renders its value inside a CDATA section. Buyer and customer
// names carry free text that must not be entity-escaped on the wire.
type cdataString struct {
	Value string `xml:",cdata"`
}

type productXML struct {
	IsSum          int    `xml:"IsSum"`
	Code           string `xml:"Code"`
	ProdName       string `xml:"ProdName"`
	ProdUnit       string `xml:"ProdUnit"`
	ProdQuantity   string `xml:"ProdQuantity"`
	ProdPrice      string `xml:"ProdPrice"`
	Discount       string `xml:"Discount"`
	DiscountAmount string `xml:"DiscountAmount"`
	VATRate        string `xml:"VATRate"`
	VATAmount      string `xml:"VATAmount"`
	Total          string `xml:"Total"`
	Amount         string `xml:"Amount"`
}

type productsXML struct {
	Product []productXML `xml:"Product"`
}

// invoiceXML is the vendor invoice body. Field order is element order on the
// wire; every element is emitted even when empty (fixed schema).
type invoiceXML struct {
	CusCode        string      `xml:"CusCode"`
	Buyer          cdataString `xml:"Buyer"`
	CusName        cdataString `xml:"CusName"`
	CusPhone       string      `xml:"CusPhone"`
	CusAddress     string      `xml:"CusAddress"`
	CusTaxCode     string      `xml:"CusTaxCode"`
	MCHang         string      `xml:"MCHang"`
	TCHang         string      `xml:"TCHang"`
	PaymentMethod  string      `xml:"PaymentMethod"`
	ArisingDate    string      `xml:"ArisingDate"`
	Products       productsXML `xml:"Products"`
	Total          string      `xml:"Total"`
	VATRate        string      `xml:"VATRate"`
	VATAmount      string      `xml:"VATAmount"`
	DiscountAmount string      `xml:"DiscountAmount"`
	Amount         string      `xml:"Amount"`
	AmountInWords  string      `xml:"AmountInWords"`
}

type createDoc struct {
	XMLName xml.Name `xml:"Invoices"`
	Inv     struct {
		Key     string     `xml:"key"`
		Invoice invoiceXML `xml:"Invoice"`
	} `xml:"Inv"`
}

// replaceDoc wraps the invoice body in a ReplaceInv reference node carrying
// the original document's Fkey; the body elements are inlined unchanged.
type replaceDoc struct {
	XMLName xml.Name `xml:"ReplaceInv"`
	Fkey    string   `xml:"Fkey"`
	invoiceXML
}

func buildInvoice(inv domain.InvoiceRequest, arisingDate string) invoiceXML {
	words, err := vnwords.Currency(inv.GrandTotal.String())
	if err != nil {
		words = ""
	}

	doc := invoiceXML{
		CusCode:        inv.CustomerID,
		Buyer:          cdataString{Value: inv.BuyerName},
		CusName:        cdataString{Value: inv.CustomerName},
		CusPhone:       inv.CustomerPhone,
		CusAddress:     inv.CustomerAddress,
		CusTaxCode:     inv.CustomerTaxCode,
		MCHang:         inv.StoreID,
		TCHang:         inv.StoreName,
		PaymentMethod:  inv.PaymentMethod,
		ArisingDate:    arisingDate,
		Total:          inv.Subtotal.String(),
		VATRate:        inv.VATRate.String(),
		VATAmount:      inv.VATAmount.String(),
		DiscountAmount: inv.DiscountAmount.String(),
		Amount:         inv.GrandTotal.String(),
		AmountInWords:  words,
	}

	for _, line := range inv.Lines {
		lineType := line.Type
		if !lineType.Valid() {
			lineType = domain.LineTypeOrdinary
		}
		doc.Products.Product = append(doc.Products.Product, productXML{
			IsSum:          int(lineType),
			Code:           line.Code,
			ProdName:       line.Name,
			ProdUnit:       line.Unit,
			ProdQuantity:   line.Quantity.String(),
			ProdPrice:      line.UnitPrice.String(),
			Discount:       line.DiscountRate.String(),
			DiscountAmount: line.DiscountAmount.String(),
			VATRate:        line.VATRate.String(),
			VATAmount:      line.VATAmount.String(),
			Total:          line.Total.String(),
			Amount:         line.Amount.String(),
		})
	}

	return doc
}

// buildCreateXML serializes the create-variant document:
// <Invoices><Inv><key/><Invoice/></Inv></Invoices>.
func buildCreateXML(inv domain.InvoiceRequest, arisingDate string) (string, error) {
	doc := createDoc{}
	doc.Inv.Key = inv.Code
	doc.Inv.Invoice = buildInvoice(inv, arisingDate)
	return marshalDoc(doc)
}

// buildReplaceXML serializes the replace-variant document with the original
// invoice's Fkey in the wrapping reference node.
func buildReplaceXML(inv domain.InvoiceRequest, arisingDate string) (string, error) {
	doc := replaceDoc{
		Fkey:       inv.Code,
		invoiceXML: buildInvoice(inv, arisingDate),
	}
	return marshalDoc(doc)
}

func marshalDoc(doc any) (string, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling invoice xml: %w", err)
	}
	return xml.Header + string(out), nil
}
