package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sampleInvoice() Invoice {
	return Invoice{
		InvoiceNo:    "AQ-1001",
		Date:         NewDate(2024, time.January, 1),
		Terms:        "15 days",
		CustomerName: "Brilliant Co",
		Items: []Item{
			{ID: "a", StockID: "S1", Description: "Round 1.01ct", Weight: dec("1.01"), PricePerUnit: dec("1000"), Total: dec("1010")},
			{ID: "b", StockID: "S2", Description: "Oval 0.5ct", Weight: dec("0.5"), PricePerUnit: dec("800"), Total: dec("400")},
		},
		TotalAmount: dec("1410"),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Invoice)
		wantErr bool
	}{
		{"valid", func(*Invoice) {}, false},
		{"empty items", func(inv *Invoice) { inv.Items = nil }, false},
		{"missing number", func(inv *Invoice) { inv.InvoiceNo = "" }, true},
		{"missing date", func(inv *Invoice) { inv.Date = Date{} }, true},
		{"missing item id", func(inv *Invoice) { inv.Items[1].ID = "" }, true},
		{"duplicate item id", func(inv *Invoice) { inv.Items[1].ID = "a" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			tt.mutate(&inv)
			err := inv.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTotals(t *testing.T) {
	inv := sampleInvoice()
	assert.True(t, dec("1410").Equal(inv.ItemsTotal()))

	diff, ok := inv.Reconcile()
	assert.True(t, ok)
	assert.True(t, diff.IsZero())

	inv.ShippingCharge = decPtr("25")
	inv.OtherCharge = decPtr("0")
	assert.True(t, inv.HasShipping())
	assert.False(t, inv.HasOtherCharge())
	assert.True(t, dec("1435").Equal(inv.ComputedTotal()))

	diff, ok = inv.Reconcile()
	assert.False(t, ok)
	assert.Equal(t, "-25", diff.String())
}

func TestChargePresence(t *testing.T) {
	tests := []struct {
		name   string
		charge *decimal.Decimal
		want   bool
	}{
		{"absent", nil, false},
		{"zero", decPtr("0"), false},
		{"negative", decPtr("-5"), false},
		{"positive", decPtr("0.01"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{ShippingCharge: tt.charge, OtherCharge: tt.charge}
			assert.Equal(t, tt.want, inv.HasShipping())
			assert.Equal(t, tt.want, inv.HasOtherCharge())
		})
	}
}

func TestInvoiceJSON(t *testing.T) {
	raw := `{
		"invoiceNo": "AQ-7",
		"date": "2024-03-05",
		"terms": "COD",
		"customerName": "Gem House",
		"items": [{"id": "1", "stockId": "X", "description": "Pear", "weight": 2.5, "pricePerUnit": "100", "total": 250}],
		"shippingCharge": 12.5,
		"totalAmount": 262.5
	}`
	var inv Invoice
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))

	assert.Equal(t, "05-03-2024", inv.Date.Display())
	require.Len(t, inv.Items, 1)
	assert.True(t, dec("2.5").Equal(inv.Items[0].Weight))
	require.NotNil(t, inv.ShippingCharge)
	assert.Nil(t, inv.OtherCharge)
	assert.NoError(t, inv.Validate())

	out, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"date":"2024-03-05"`)
	assert.NotContains(t, string(out), "otherCharge")
}
