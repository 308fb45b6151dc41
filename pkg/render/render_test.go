package render

import (
	"bytes"
	"compress/zlib"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/invoice"
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

func sampleInvoice() invoice.Invoice {
	return invoice.Invoice{
		InvoiceNo:       "AQ-1001",
		Date:            invoice.NewDate(2024, time.January, 1),
		Terms:           "15 days",
		CustomerName:    "Brilliant Co",
		CustomerAddress: "12 Nathan Road",
		CustomerCity:    "Kowloon",
		CustomerPhone:   "5555 0101",
		Items: []invoice.Item{
			{ID: "a", StockID: "S1", Description: "Round brilliant 1.01ct G VS1", Weight: dec("1.01"), PricePerUnit: dec("1000"), Total: dec("1010")},
			{ID: "b", StockID: "S2", Description: "Oval 0.50ct", Weight: dec("0.5"), PricePerUnit: dec("800"), Total: dec("400")},
		},
		TotalAmount: dec("1410"),
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 64, B: 175, A: uint8(255 * x / w)})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	if opts.Profile.Name == "" {
		opts.Profile = DefaultProfile()
	}
	r, err := New(opts, nil)
	require.NoError(t, err)
	return r
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(sampleInvoice(), DefaultMinRows)

	assert.Equal(t, "01-01-2024", doc.Date)
	assert.True(t, doc.HasDueDate)
	assert.Equal(t, "16-01-2024", doc.DueDate)
	assert.Equal(t, "Invoice-AQ-1001.pdf", doc.FileName)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, Row{
		Key: "a", SrNo: 1, StockID: "S1", Description: "Round brilliant 1.01ct G VS1",
		Weight: "1.01CT", Price: "1000$", Total: "1010$",
	}, doc.Rows[0])
	assert.Empty(t, doc.Summary)
	assert.Equal(t, "1410$", doc.Total)
}

func TestNewDocumentPadding(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		minRows   int
		wantRows  int
		wantBlank int
	}{
		{"empty invoice", 0, 2, 2, 2},
		{"one item", 1, 2, 2, 1},
		{"more items than minimum", 3, 2, 3, 0},
		{"six row sheet", 2, 6, 6, 4},
		{"negative minimum", 1, -1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			inv.Items = nil
			for i := 0; i < tt.items; i++ {
				inv.Items = append(inv.Items, invoice.Item{ID: string(rune('a' + i)), Total: dec("1")})
			}
			doc := NewDocument(inv, tt.minRows)
			require.Len(t, doc.Rows, tt.wantRows)
			blank := 0
			keys := map[string]bool{}
			for _, r := range doc.Rows {
				if r.Blank {
					blank++
				}
				assert.False(t, keys[r.Key], "duplicate row key %s", r.Key)
				keys[r.Key] = true
			}
			assert.Equal(t, tt.wantBlank, blank)
		})
	}
}

func TestNewDocumentEmptyKeepsGivenTotal(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = nil
	inv.TotalAmount = dec("99.5")

	doc := NewDocument(inv, DefaultMinRows)
	assert.Len(t, doc.Rows, 2)
	assert.Equal(t, "99.5$", doc.Total)
}

func TestNewDocumentSummaryRows(t *testing.T) {
	tests := []struct {
		name     string
		shipping *decimal.Decimal
		other    *decimal.Decimal
		want     []SummaryRow
	}{
		{"absent", nil, nil, nil},
		{"zero values", decPtr("0"), decPtr("0"), nil},
		{"shipping only", decPtr("25"), nil, []SummaryRow{{"SHIPPING CHARGES", "25$"}}},
		{"both", decPtr("25"), decPtr("7.5"), []SummaryRow{{"SHIPPING CHARGES", "25$"}, {"OTHER CHARGES / TAX", "7.5$"}}},
		{"negative other", nil, decPtr("-3"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			inv.ShippingCharge = tt.shipping
			inv.OtherCharge = tt.other
			doc := NewDocument(inv, DefaultMinRows)
			assert.Equal(t, tt.want, doc.Summary)
		})
	}
}

func TestNewDocumentDueDate(t *testing.T) {
	inv := sampleInvoice()

	inv.Terms = "COD"
	assert.False(t, NewDocument(inv, 0).HasDueDate)

	inv.Terms = "30 days"
	doc := NewDocument(inv, 0)
	assert.True(t, doc.HasDueDate)
	assert.Equal(t, "31-01-2024", doc.DueDate)

	inv.Terms = "consignment"
	doc = NewDocument(inv, 0)
	assert.True(t, doc.HasDueDate)
	assert.Equal(t, doc.Date, doc.DueDate)
}

func TestHTML(t *testing.T) {
	r := newRenderer(t, Options{MinRows: DefaultMinRows})
	inv := sampleInvoice()
	inv.ShippingCharge = decPtr("25")
	inv.TotalAmount = dec("1435")

	var buf bytes.Buffer
	require.NoError(t, r.HTML(&buf, inv, PageOptions{ExportURL: "/invoices/pdf", LogoutURL: "/logout"}))
	out := buf.String()

	assert.Contains(t, out, "<title>Invoice AQ-1001</title>")
	assert.Contains(t, out, "TO: Brilliant Co")
	assert.Contains(t, out, "Tel: 5555 0101")
	assert.Contains(t, out, "<span>Due Date:</span><span>16-01-2024</span>")
	assert.Contains(t, out, "1.01CT")
	assert.Contains(t, out, "SHIPPING CHARGES")
	assert.NotContains(t, out, "OTHER CHARGES / TAX")
	assert.Contains(t, out, "1435$")
	assert.Contains(t, out, "SWIFT CODE : BKCHHKHHXXX")
	assert.Contains(t, out, "<h1>AQUA DIAMONDS LTD</h1>")
	assert.Contains(t, out, "window.print()")
	assert.Contains(t, out, "Failed to generate PDF. Please try again.")
	assert.Contains(t, out, "Invoice-AQ-1001.pdf")
	assert.Equal(t, 0, strings.Count(out, `class="blank"`))
}

func TestHTMLEmptyInvoice(t *testing.T) {
	r := newRenderer(t, Options{MinRows: DefaultMinRows})
	inv := sampleInvoice()
	inv.Items = nil
	inv.Terms = "COD"
	inv.CustomerPhone = ""
	inv.TotalAmount = dec("0")

	var buf bytes.Buffer
	require.NoError(t, r.HTML(&buf, inv, PageOptions{}))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, `class="blank"`))
	assert.Contains(t, out, `<td class="c b">0$</td>`)
	assert.NotContains(t, out, "Due Date:")
	assert.NotContains(t, out, "Tel: ")
	assert.NotContains(t, out, "window.print()")
}

func TestHTMLEscapesCustomerInput(t *testing.T) {
	r := newRenderer(t, Options{})
	inv := sampleInvoice()
	inv.CustomerName = `</script><script>alert(1)</script>`

	var buf bytes.Buffer
	require.NoError(t, r.HTML(&buf, inv, PageOptions{ExportURL: "/invoices/pdf"}))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestHTMLWithImages(t *testing.T) {
	dir := t.TempDir()
	r := newRenderer(t, Options{
		LogoPath:  writePNG(t, dir, "logo.png", 40, 20),
		StampPath: writePNG(t, dir, "stamp.png", 16, 16),
	})

	var buf bytes.Buffer
	require.NoError(t, r.HTML(&buf, sampleInvoice(), PageOptions{}))
	out := buf.String()
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.Contains(t, out, `alt="Company stamp"`)
	assert.NotContains(t, out, "<h1>AQUA DIAMONDS LTD</h1>")
}

func TestPDF(t *testing.T) {
	dir := t.TempDir()
	r := newRenderer(t, Options{
		MinRows:   DefaultMinRows,
		LogoPath:  writePNG(t, dir, "logo.png", 400, 200),
		StampPath: writePNG(t, dir, "stamp.png", 120, 120),
	})
	inv := sampleInvoice()
	inv.ShippingCharge = decPtr("25")
	inv.OtherCharge = decPtr("10")

	var buf bytes.Buffer
	require.NoError(t, r.PDF(context.Background(), &buf, inv))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestPDFEmptyInvoiceWithoutImages(t *testing.T) {
	r := newRenderer(t, Options{MinRows: DefaultMinRows})
	inv := sampleInvoice()
	inv.Items = nil

	var buf bytes.Buffer
	require.NoError(t, r.PDF(context.Background(), &buf, inv))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

// pdfStreams returns the inflated content of every compressed stream in raw.
func pdfStreams(raw []byte) [][]byte {
	var out [][]byte
	for {
		i := bytes.Index(raw, []byte("stream\n"))
		if i < 0 {
			return out
		}
		raw = raw[i+len("stream\n"):]
		j := bytes.Index(raw, []byte("\nendstream"))
		if j < 0 {
			return out
		}
		if zr, err := zlib.NewReader(bytes.NewReader(raw[:j])); err == nil {
			if data, err := io.ReadAll(zr); err == nil {
				out = append(out, data)
			}
		}
		raw = raw[j+len("\nendstream"):]
	}
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return b
}

func TestPDFUnicodeFont(t *testing.T) {
	r := newRenderer(t, Options{
		MinRows: DefaultMinRows,
		PDF: PDFOptions{
			PageSize:     "A4",
			Orientation:  "P",
			MarginInches: 0.3,
			Scale:        2,
			JPEGQuality:  0.95,
			FontPath:     filepath.Join("testdata", "DejaVuSansCondensed.ttf"),
		},
	})
	inv := sampleInvoice()
	inv.CustomerName = "周大福珠寶"
	inv.CustomerCity = "Ñandú"
	inv.Items[0].Description = "Ωμέγα 1.01ct"

	var buf bytes.Buffer
	require.NoError(t, r.PDF(context.Background(), &buf, inv))

	content := bytes.Join(pdfStreams(buf.Bytes()), nil)
	for _, want := range []string{"TO: 周大福珠寶", "Ñandú", "Ωμέγα"} {
		assert.True(t, bytes.Contains(content, utf16BE(want)), "PDF text is missing %q", want)
	}
}

func TestPDFCoreFontFallback(t *testing.T) {
	r := newRenderer(t, Options{MinRows: DefaultMinRows})
	inv := sampleInvoice()
	inv.CustomerName = "Ñandú"

	var buf bytes.Buffer
	require.NoError(t, r.PDF(context.Background(), &buf, inv))
	content := bytes.Join(pdfStreams(buf.Bytes()), nil)
	// Windows-1252 bytes for the core font
	assert.True(t, bytes.Contains(content, []byte("TO: \xd1and\xfa")))
}

func TestNewMissingFont(t *testing.T) {
	opts := DefaultPDFOptions()
	opts.FontPath = filepath.Join(t.TempDir(), "absent.ttf")
	_, err := New(Options{Profile: DefaultProfile(), PDF: opts}, nil)
	require.Error(t, err)
}

func TestBasicPlane(t *testing.T) {
	assert.Equal(t, "周大福 \uFFFD ok", basicPlane("周大福 💎 ok"))
}

func TestPDFCancelled(t *testing.T) {
	r := newRenderer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.PDF(ctx, &bytes.Buffer{}, sampleInvoice())
	require.Error(t, err)
	assert.True(t, ierr.IsExport(err))
	assert.Equal(t, "Failed to generate PDF. Please try again.", ierr.Hint(err, ""))
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	img, err := LoadImage("logo", "")
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = LoadImage("logo", writePNG(t, dir, "logo.png", 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("not an image"), 0o600))
	_, err = LoadImage("logo", text)
	assert.True(t, ierr.IsValidation(err))

	_, err = LoadImage("logo", filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestRasterizeNeverUpsamples(t *testing.T) {
	dir := t.TempDir()
	img, err := LoadImage("stamp", writePNG(t, dir, "stamp.png", 10, 5))
	require.NoError(t, err)

	data, aspect, err := img.rasterize(4, 4, 2, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 2.0, aspect)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}

func TestRasterizeDownsamplesToScale(t *testing.T) {
	dir := t.TempDir()
	img, err := LoadImage("logo", writePNG(t, dir, "logo.png", 960, 480))
	require.NoError(t, err)

	// one inch box at scale 2 holds 192 device pixels
	data, _, err := img.rasterize(1, 1, 2, 0.95)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 192, cfg.Width)
	assert.Equal(t, 96, cfg.Height)
}
