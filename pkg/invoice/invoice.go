// pkg/invoice/invoice.go

package invoice

import (
	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice data model. It is built wholesale by the caller
// and treated as an immutable snapshot by the renderers.
type Invoice struct {
	InvoiceNo       string           `json:"invoiceNo" validate:"required"`
	Date            Date             `json:"date"`
	Terms           string           `json:"terms"`
	CustomerName    string           `json:"customerName"`
	CustomerAddress string           `json:"customerAddress"`
	CustomerCity    string           `json:"customerCity"`
	CustomerPhone   string           `json:"customerPhone,omitempty"`
	Items           []Item           `json:"items" validate:"dive"`
	ShippingCharge  *decimal.Decimal `json:"shippingCharge,omitempty"`
	OtherCharge     *decimal.Decimal `json:"otherCharge,omitempty"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
}

// Item represents a line item in the invoice.
type Item struct {
	ID           string          `json:"id" validate:"required"`
	StockID      string          `json:"stockId"`
	Description  string          `json:"description"`
	Weight       decimal.Decimal `json:"weight"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Total        decimal.Decimal `json:"total"`
}

var validate = validator.New()

// Validate checks the fields the renderers rely on: an invoice number for the
// export file name, a date, and unique item ids for stable row keys.
func (inv Invoice) Validate() error {
	if err := validate.Struct(inv); err != nil {
		return ierr.WithError(err).
			WithHint("invoice number and item ids are required").
			Mark(ierr.ErrValidation)
	}
	if inv.Date.IsZero() {
		return ierr.NewError("invoice date is missing").
			WithHint("invoice date is required").
			Mark(ierr.ErrValidation)
	}
	dups := lo.FindDuplicatesBy(inv.Items, func(item Item) string { return item.ID })
	if len(dups) > 0 {
		return ierr.NewErrorf("duplicate item id %q", dups[0].ID).
			WithHintf("line item id %s is used more than once", dups[0].ID).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ItemsTotal sums the line item totals.
func (inv Invoice) ItemsTotal() decimal.Decimal {
	return lo.Reduce(inv.Items, func(sum decimal.Decimal, item Item, _ int) decimal.Decimal {
		return sum.Add(item.Total)
	}, decimal.Zero)
}

// HasShipping reports whether a shipping row should be shown.
func (inv Invoice) HasShipping() bool {
	return isPositive(inv.ShippingCharge)
}

// HasOtherCharge reports whether an other/tax row should be shown.
func (inv Invoice) HasOtherCharge() bool {
	return isPositive(inv.OtherCharge)
}

// ComputedTotal is the items total plus any strictly positive charges.
func (inv Invoice) ComputedTotal() decimal.Decimal {
	total := inv.ItemsTotal()
	if inv.HasShipping() {
		total = total.Add(*inv.ShippingCharge)
	}
	if inv.HasOtherCharge() {
		total = total.Add(*inv.OtherCharge)
	}
	return total
}

// Reconcile compares the stated total with the computed one. The stated total is
// what gets printed; a non-zero diff is only reported.
func (inv Invoice) Reconcile() (diff decimal.Decimal, ok bool) {
	diff = inv.TotalAmount.Sub(inv.ComputedTotal())
	return diff, diff.IsZero()
}

func isPositive(v *decimal.Decimal) bool {
	return v != nil && v.IsPositive()
}
