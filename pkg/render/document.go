package render

import (
	"fmt"

	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DefaultMinRows is the number of table rows printed even when the invoice has fewer items.
const DefaultMinRows = 2

// Row is one line of the item table. Blank rows pad the table to the minimum count.
type Row struct {
	Key         string
	SrNo        int
	StockID     string
	Description string
	Weight      string
	Price       string
	Total       string
	Blank       bool
}

// SummaryRow is a labelled amount printed under the items, such as shipping.
type SummaryRow struct {
	Label  string
	Amount string
}

// Document is the rendering view of an invoice shared by the HTML and PDF output.
type Document struct {
	InvoiceNo       string
	Date            string
	Terms           string
	DueDate         string
	HasDueDate      bool
	CustomerName    string
	CustomerAddress string
	CustomerCity    string
	CustomerPhone   string
	Rows            []Row
	Summary         []SummaryRow
	Total           string
	FileName        string
}

// NewDocument lays out inv. minRows below zero is treated as zero.
func NewDocument(inv invoice.Invoice, minRows int) Document {
	doc := Document{
		InvoiceNo:       inv.InvoiceNo,
		Date:            inv.Date.Display(),
		Terms:           inv.Terms,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerCity:    inv.CustomerCity,
		CustomerPhone:   inv.CustomerPhone,
		Total:           Amount(inv.TotalAmount),
		FileName:        FileName(inv.InvoiceNo),
	}
	if due, ok := inv.DueDate(); ok {
		doc.DueDate = due.Display()
		doc.HasDueDate = true
	}

	doc.Rows = lo.Map(inv.Items, func(item invoice.Item, i int) Row {
		return Row{
			Key:         item.ID,
			SrNo:        i + 1,
			StockID:     item.StockID,
			Description: item.Description,
			Weight:      Weight(item.Weight),
			Price:       Amount(item.PricePerUnit),
			Total:       Amount(item.Total),
		}
	})
	padding := lo.Times(max(0, minRows-len(inv.Items)), func(i int) Row {
		return Row{Key: fmt.Sprintf("empty-%d", i), Blank: true}
	})
	doc.Rows = append(doc.Rows, padding...)

	if inv.HasShipping() {
		doc.Summary = append(doc.Summary, SummaryRow{Label: "SHIPPING CHARGES", Amount: Amount(*inv.ShippingCharge)})
	}
	if inv.HasOtherCharge() {
		doc.Summary = append(doc.Summary, SummaryRow{Label: "OTHER CHARGES / TAX", Amount: Amount(*inv.OtherCharge)})
	}
	return doc
}

// FileName is the download name of an exported invoice.
func FileName(invoiceNo string) string {
	return fmt.Sprintf("Invoice-%s.pdf", invoiceNo)
}

// Amount prints a money value with a trailing dollar sign, e.g. "1500.5$".
func Amount(d decimal.Decimal) string {
	return d.String() + "$"
}

// Weight prints a carat weight, e.g. "1.01CT".
func Weight(d decimal.Decimal) string {
	return d.String() + "CT"
}
