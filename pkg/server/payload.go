package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// decodeInvoice reads a JSON invoice or the entry form and validates it.
func decodeInvoice(w http.ResponseWriter, r *http.Request) (invoice.Invoice, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var inv invoice.Invoice
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
			return inv, ierr.WithError(err).WithHint("invalid JSON").Mark(ierr.ErrValidation)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return inv, ierr.WithError(err).WithHint("invalid form").Mark(ierr.ErrValidation)
		}
		var err error
		if inv, err = invoiceFromForm(r.PostForm); err != nil {
			return inv, err
		}
	}
	if err := inv.Validate(); err != nil {
		return inv, err
	}
	return inv, nil
}

// invoiceFromForm maps the entry form. Item rows that are entirely blank are
// skipped; a blank item total is weight x price and a blank invoice total is
// the computed total.
func invoiceFromForm(form url.Values) (invoice.Invoice, error) {
	inv := invoice.Invoice{
		InvoiceNo:       strings.TrimSpace(form.Get("invoice_no")),
		Terms:           strings.TrimSpace(form.Get("terms")),
		CustomerName:    form.Get("customer_name"),
		CustomerAddress: form.Get("customer_address"),
		CustomerCity:    form.Get("customer_city"),
		CustomerPhone:   strings.TrimSpace(form.Get("customer_phone")),
	}

	var err error
	if inv.Date, err = invoice.ParseDate(form.Get("date")); err != nil {
		return inv, err
	}
	if inv.ShippingCharge, err = optionalDecimal(form, "shipping_charge"); err != nil {
		return inv, err
	}
	if inv.OtherCharge, err = optionalDecimal(form, "other_charge"); err != nil {
		return inv, err
	}

	ids := form["item_id"]
	stock := form["item_stock_id"]
	desc := form["item_description"]
	weights := form["item_weight"]
	prices := form["item_price"]
	totals := form["item_total"]
	n := max(len(stock), len(desc), len(weights), len(prices), len(totals))

	for i := 0; i < n; i++ {
		row := []string{at(stock, i), at(desc, i), at(weights, i), at(prices, i), at(totals, i)}
		if strings.Join(row, "") == "" {
			continue
		}
		item := invoice.Item{
			ID:          at(ids, i),
			StockID:     row[0],
			Description: row[1],
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Weight, err = parseDecimal("item_weight", row[2]); err != nil {
			return inv, err
		}
		if item.PricePerUnit, err = parseDecimal("item_price", row[3]); err != nil {
			return inv, err
		}
		if row[4] == "" {
			item.Total = item.Weight.Mul(item.PricePerUnit)
		} else if item.Total, err = parseDecimal("item_total", row[4]); err != nil {
			return inv, err
		}
		inv.Items = append(inv.Items, item)
	}

	total := strings.TrimSpace(form.Get("total_amount"))
	if total == "" {
		inv.TotalAmount = inv.ComputedTotal()
	} else if inv.TotalAmount, err = parseDecimal("total_amount", total); err != nil {
		return inv, err
	}
	return inv, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("%s must be a number", field).
			Mark(ierr.ErrValidation)
	}
	return d, nil
}

func optionalDecimal(form url.Values, field string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
