package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDate(t *testing.T) {
	base := NewDate(2024, time.January, 1)
	tests := []struct {
		terms   string
		wantOK  bool
		wantDue string
	}{
		{"COD", false, ""},
		{"cod", false, ""},
		{"", false, ""},
		{"   ", false, ""},
		{"15 days", true, "16-01-2024"},
		{"30 days", true, "31-01-2024"},
		{"45DAYS", true, "15-02-2024"},
		{"Net 60 day", true, "01-03-2024"},
		{"1 day", true, "02-01-2024"},
		// unparseable terms fall back to the invoice date
		{"on consignment", true, "01-01-2024"},
		{"end of month", true, "01-01-2024"},
		// day counts beyond the cap fall back too
		{"36500 days", true, "08-12-2123"},
		{"36501 days", true, "01-01-2024"},
		{"99999999999999 days", true, "01-01-2024"},
		{"999999999999999999999 days", true, "01-01-2024"},
	}
	for _, tt := range tests {
		t.Run(tt.terms, func(t *testing.T) {
			due, ok := DueDate(base, tt.terms)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantDue, due.Display())
			}
		})
	}
}

func TestInvoiceDueDate(t *testing.T) {
	inv := Invoice{Date: NewDate(2024, time.January, 1), Terms: "15 days"}
	due, ok := inv.DueDate()
	require.True(t, ok)
	assert.Equal(t, "16-01-2024", due.Display())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-01", "01-01-2024", false},
		{" 2023-12-31 ", "31-12-2023", false},
		{"2024-02-29T23:30:00+08:00", "29-02-2024", false},
		{"01/02/2024", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Display())
		})
	}
}
