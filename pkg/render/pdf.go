package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/jung-kurt/gofpdf"
)

const exportHint = "Failed to generate PDF. Please try again."

// PDFOptions mirror the export settings: page format, margins in inches, the raster
// scale applied to images and their JPEG quality in (0,1].
//
// FontPath names a TrueType font used for all text. Without it the PDF falls back
// to the core Arial font, which only prints the Windows-1252 character set.
// BoldFontPath is optional; the regular font is used for bold text when unset.
type PDFOptions struct {
	PageSize     string  `mapstructure:"page_size" validate:"oneof=A4 A5 Letter Legal"`
	Orientation  string  `mapstructure:"orientation" validate:"oneof=P L"`
	MarginInches float64 `mapstructure:"margin_inches" validate:"gte=0,lt=2"`
	Scale        float64 `mapstructure:"scale" validate:"gt=0,lte=8"`
	JPEGQuality  float64 `mapstructure:"jpeg_quality" validate:"gt=0,lte=1"`
	FontPath     string  `mapstructure:"font_path" validate:"omitempty,file"`
	BoldFontPath string  `mapstructure:"bold_font_path" validate:"omitempty,file"`
}

// fonts holds the TrueType files loaded from PDFOptions.
type fonts struct {
	regular []byte
	bold    []byte
}

const (
	coreFamily    = "Arial"
	unicodeFamily = "aquasans"
)

func loadFonts(opts PDFOptions) (fonts, error) {
	var f fonts
	if opts.FontPath == "" {
		return f, nil
	}
	var err error
	if f.regular, err = os.ReadFile(opts.FontPath); err != nil {
		return f, ierr.WithError(err).
			WithHintf("cannot read PDF font %s", opts.FontPath).
			Mark(ierr.ErrSystem)
	}
	f.bold = f.regular
	if opts.BoldFontPath != "" {
		if f.bold, err = os.ReadFile(opts.BoldFontPath); err != nil {
			return f, ierr.WithError(err).
				WithHintf("cannot read PDF font %s", opts.BoldFontPath).
				Mark(ierr.ErrSystem)
		}
	}
	return f, nil
}

// DefaultPDFOptions: A4 portrait, 0.3in margins, scale 2, JPEG quality 0.95.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:     "A4",
		Orientation:  "P",
		MarginInches: 0.3,
		Scale:        2,
		JPEGQuality:  0.95,
	}
}

var (
	// item table column widths as fractions of the printable width
	columnWidths = []float64{0.07, 0.14, 0.40, 0.12, 0.135, 0.135}
	columnAligns = []string{"C", "L", "L", "C", "C", "C"}
	headerAligns = []string{"L", "L", "L", "C", "C", "C"}
	headerCells  = []string{"SR NO", "STOCK ID", "DESCRIPTION", "WEIGHT", "PRICE\n(USD / HKD)", "TOTAL"}
)

const (
	basePt       = 9.0
	legalPt      = 5.5
	logoHeightIn = 100.0 / cssPixelsPerInch
	stampSizeIn  = 64.0 / cssPixelsPerInch
	sigLineIn    = 160.0 / cssPixelsPerInch
)

// PDF writes inv as a PDF document to w. Any failure is marked ErrExport and
// carries the user facing hint.
func (r *Renderer) PDF(ctx context.Context, w io.Writer, inv invoice.Invoice) error {
	if err := ctx.Err(); err != nil {
		return ierr.WithError(err).WithHint(exportHint).Mark(ierr.ErrExport)
	}
	doc := r.Document(inv)

	p := newPDFWriter(r.pdf, r.fonts)
	p.pdf.SetTitle(fmt.Sprintf("Invoice %s", doc.InvoiceNo), true)
	p.pdf.SetAuthor(r.profile.Name, true)
	p.pdf.SetCreator("aqua-invoice", false)
	created := inv.Date.Time
	if created.IsZero() {
		created = now()
	}
	p.pdf.SetCreationDate(created)
	p.pdf.AddPage()

	if err := r.drawHeader(p); err != nil {
		return ierr.WithError(err).WithHint(exportHint).Mark(ierr.ErrExport)
	}
	p.dashedRule()
	p.title("INVOICE")
	p.parties(doc)
	p.itemTable(doc)
	p.bullets(r.profile.Notes)
	p.banks(r.profile.Banks)
	if err := r.drawSignatures(p); err != nil {
		return ierr.WithError(err).WithHint(exportHint).Mark(ierr.ErrExport)
	}
	p.legal(r.profile)
	p.thanks(r.profile.ThankYou)

	if err := ctx.Err(); err != nil {
		return ierr.WithError(err).WithHint(exportHint).Mark(ierr.ErrExport)
	}
	if err := p.pdf.Output(w); err != nil {
		return ierr.WithError(err).
			WithHint(exportHint).
			WithMessage(fmt.Sprintf("writing %s", doc.FileName)).
			Mark(ierr.ErrExport)
	}
	return nil
}

type pdfWriter struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	font    string
	unicode bool
	opts    PDFOptions
	left    float64
	width   float64
	lineH   float64
}

func newPDFWriter(opts PDFOptions, f fonts) *pdfWriter {
	pdf := gofpdf.New(opts.Orientation, "in", opts.PageSize, "")
	m := opts.MarginInches
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(true, m)
	pdf.SetCompression(true)
	pageW, _ := pdf.GetPageSize()
	p := &pdfWriter{
		pdf:   pdf,
		font:  coreFamily,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		opts:  opts,
		left:  m,
		width: pageW - 2*m,
		lineH: lineHeight(basePt),
	}
	if f.regular != nil {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", f.regular)
		pdf.AddUTF8FontFromBytes(unicodeFamily, "B", f.bold)
		p.font = unicodeFamily
		p.unicode = true
		p.tr = basicPlane
	}
	pdf.SetFont(p.font, "", basePt)
	return p
}

// basicPlane replaces runes outside the Basic Multilingual Plane, which the
// embedded font encoding cannot address.
func basicPlane(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}

// split wraps text to w inches with the current font.
func (p *pdfWriter) split(text string, w float64) []string {
	if p.unicode {
		return p.pdf.SplitText(text, w)
	}
	lines := p.pdf.SplitLines([]byte(text), w)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}

func lineHeight(pt float64) float64 {
	return pt / 72 * 1.4
}

// ensureSpace starts a new page when h inches do not fit above the bottom margin.
func (p *pdfWriter) ensureSpace(h float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY()+h > pageH-p.opts.MarginInches {
		p.pdf.AddPage()
	}
}

// image rasterizes img into a w x h inch box at the configured scale and quality,
// registers it under name, and returns its placed size.
func (p *pdfWriter) image(name string, img *Image, x, y, boxW, boxH float64) (float64, float64, error) {
	data, aspect, err := img.rasterize(boxW, boxH, p.opts.Scale, p.opts.JPEGQuality)
	if err != nil {
		return 0, 0, err
	}
	h := boxH
	w := h * aspect
	if w > boxW {
		w = boxW
		h = w / aspect
	}
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	p.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return w, h, p.pdf.Error()
}

func (r *Renderer) drawHeader(p *pdfWriter) error {
	top := p.pdf.GetY()
	leftH := 0.0
	if r.assets.Logo != nil {
		_, h, err := p.image("logo", r.assets.Logo, p.left, top, p.width/2, logoHeightIn)
		if err != nil {
			return err
		}
		leftH = h
	} else {
		p.pdf.SetFont(p.font, "B", 18)
		p.pdf.SetXY(p.left, top)
		p.pdf.CellFormat(p.width/2, lineHeight(18), p.tr(r.profile.Name), "", 0, "L", false, 0, "")
		leftH = lineHeight(18)
	}

	p.pdf.SetFont(p.font, "", 8)
	lh := lineHeight(8)
	lines := append([]string{}, r.profile.Address...)
	if r.profile.Phone != "" {
		lines = append(lines, "Tel No: "+r.profile.Phone)
	}
	if r.profile.Fax != "" {
		lines = append(lines, "Fax No: "+r.profile.Fax)
	}
	if r.profile.Email != "" {
		lines = append(lines, "Email: "+r.profile.Email)
	}
	for i, line := range lines {
		p.pdf.SetXY(p.left+p.width/2, top+float64(i)*lh)
		p.pdf.CellFormat(p.width/2, lh, p.tr(line), "", 0, "R", false, 0, "")
	}
	rightH := float64(len(lines)) * lh

	p.pdf.SetFont(p.font, "", basePt)
	p.pdf.SetXY(p.left, top+max(leftH, rightH)+0.2)
	return nil
}

func (p *pdfWriter) dashedRule() {
	y := p.pdf.GetY()
	p.pdf.SetDrawColor(75, 85, 99)
	p.pdf.SetLineWidth(0.01)
	p.pdf.SetDashPattern([]float64{0.04, 0.03}, 0)
	p.pdf.Line(p.left, y, p.left+p.width, y)
	p.pdf.SetDashPattern([]float64{}, 0)
	p.pdf.SetDrawColor(156, 163, 175)
	p.pdf.SetY(y + 0.15)
}

func (p *pdfWriter) title(text string) {
	p.pdf.SetFont(p.font, "B", 13)
	p.pdf.SetX(p.left)
	p.pdf.CellFormat(p.width, lineHeight(13), text, "", 1, "C", false, 0, "")
	p.pdf.SetFont(p.font, "", basePt)
	p.pdf.Ln(0.1)
}

func (p *pdfWriter) parties(doc Document) {
	top := p.pdf.GetY()

	p.pdf.SetFont(p.font, "", 10)
	p.pdf.SetXY(p.left, top)
	p.pdf.CellFormat(p.width/2, lineHeight(10), p.tr("TO: "+doc.CustomerName), "", 2, "L", false, 0, "")
	p.pdf.SetFont(p.font, "", basePt)
	customer := []string{doc.CustomerAddress, doc.CustomerCity}
	if doc.CustomerPhone != "" {
		customer = append(customer, "Tel: "+doc.CustomerPhone)
	}
	for _, line := range customer {
		p.pdf.SetX(p.left)
		p.pdf.MultiCell(p.width/2, p.lineH, p.tr(line), "", "L", false)
	}
	leftBottom := p.pdf.GetY()

	meta := [][2]string{
		{"Invoice No:", doc.InvoiceNo},
		{"Date:", doc.Date},
		{"Terms:", doc.Terms},
	}
	if doc.HasDueDate {
		meta = append(meta, [2]string{"Due Date:", doc.DueDate})
	}
	const boxW, pad = 2.3, 0.08
	boxX := p.left + p.width - boxW
	boxH := float64(len(meta))*p.lineH + 2*pad
	p.pdf.Rect(boxX, top, boxW, boxH, "D")
	for i, kv := range meta {
		p.pdf.SetXY(boxX+pad, top+pad+float64(i)*p.lineH)
		p.pdf.SetFont(p.font, "B", basePt)
		p.pdf.CellFormat(0.9, p.lineH, kv[0], "", 0, "L", false, 0, "")
		p.pdf.SetFont(p.font, "", basePt)
		p.pdf.CellFormat(boxW-0.9-2*pad, p.lineH, p.tr(kv[1]), "", 0, "R", false, 0, "")
	}

	p.pdf.SetXY(p.left, max(leftBottom, top+boxH)+0.15)
}

// row draws one table row whose cells wrap; the row takes the height of its
// tallest cell.
func (p *pdfWriter) row(cells []string, widths []float64, aligns []string, style string, fill bool) {
	p.pdf.SetFont(p.font, style, basePt)
	split := make([][]string, len(cells))
	lines := 1
	for i, c := range cells {
		split[i] = p.split(p.tr(c), widths[i])
		lines = max(lines, len(split[i]))
	}
	h := float64(lines) * p.lineH
	p.ensureSpace(h)

	x, y := p.left, p.pdf.GetY()
	rectStyle := "D"
	if fill {
		rectStyle = "FD"
	}
	for i := range cells {
		p.pdf.Rect(x, y, widths[i], h, rectStyle)
		for j, line := range split[i] {
			p.pdf.SetXY(x, y+float64(j)*p.lineH)
			p.pdf.CellFormat(widths[i], p.lineH, line, "", 0, aligns[i], false, 0, "")
		}
		x += widths[i]
	}
	p.pdf.SetXY(p.left, y+h)
	p.pdf.SetFont(p.font, "", basePt)
}

func (p *pdfWriter) itemTable(doc Document) {
	widths := make([]float64, len(columnWidths))
	for i, f := range columnWidths {
		widths[i] = f * p.width
	}
	labelW := p.width - widths[len(widths)-1]
	footerWidths := []float64{labelW, widths[len(widths)-1]}

	p.pdf.SetFillColor(243, 244, 246)
	p.row(headerCells, widths, headerAligns, "B", true)
	for _, r := range doc.Rows {
		if r.Blank {
			p.row(make([]string, len(widths)), widths, columnAligns, "", false)
			continue
		}
		p.row([]string{
			fmt.Sprint(r.SrNo), r.StockID, r.Description, r.Weight, r.Price, r.Total,
		}, widths, columnAligns, "", false)
	}
	for _, s := range doc.Summary {
		p.row([]string{s.Label, s.Amount}, footerWidths, []string{"R", "C"}, "B", false)
	}
	p.row([]string{"TOTAL", doc.Total}, footerWidths, []string{"R", "C"}, "B", false)
	p.pdf.Ln(0.2)
}

func (p *pdfWriter) bullets(items []string) {
	const indent = 0.15
	p.pdf.SetFont(p.font, "", 8)
	for _, item := range items {
		p.pdf.SetX(p.left + indent)
		p.pdf.MultiCell(p.width-indent, lineHeight(8), p.tr("• "+item), "", "L", false)
	}
	p.pdf.SetFont(p.font, "", basePt)
	p.pdf.Ln(0.12)
}

func (p *pdfWriter) banks(accounts []BankAccount) {
	const gap, pad = 0.17, 0.08
	boxW := (p.width - gap) / 2
	lh := lineHeight(8)
	boxH := 6*lh + 2*pad
	for i := 0; i < len(accounts); i += 2 {
		p.ensureSpace(boxH)
		top := p.pdf.GetY()
		for j := i; j < min(i+2, len(accounts)); j++ {
			a := accounts[j]
			x := p.left + float64(j-i)*(boxW+gap)
			p.pdf.Rect(x, top, boxW, boxH, "D")
			lines := []string{
				"BANK DETAILS,",
				"A/C NAME : " + a.AccountName,
				"BANK NAME: " + a.BankName,
				"US$ A/C NO : " + a.USDAccount,
				"HKS A/C NO : " + a.HKDAccount,
				"SWIFT CODE : " + a.Swift,
			}
			for k, line := range lines {
				style := ""
				if k == 0 {
					style = "B"
				}
				p.pdf.SetFont(p.font, style, 8)
				p.pdf.SetXY(x+pad, top+pad+float64(k)*lh)
				p.pdf.CellFormat(boxW-2*pad, lh, p.tr(line), "", 0, "L", false, 0, "")
			}
		}
		p.pdf.SetXY(p.left, top+boxH+gap)
	}
	p.pdf.SetFont(p.font, "", basePt)
	p.pdf.Ln(0.05)
}

func (r *Renderer) drawSignatures(p *pdfWriter) error {
	const blockW = 2.0
	p.ensureSpace(1.2)
	top := p.pdf.GetY()
	lineY := top + 0.75
	rightX := p.left + p.width - blockW
	stampLineX := rightX + (blockW-sigLineIn)/2

	if r.assets.Stamp != nil {
		if _, _, err := p.image("stamp", r.assets.Stamp, stampLineX, lineY-stampSizeIn, sigLineIn, stampSizeIn); err != nil {
			return err
		}
	}

	p.pdf.Line(p.left, lineY, p.left+sigLineIn, lineY)
	p.pdf.Line(stampLineX, lineY, stampLineX+sigLineIn, lineY)

	p.pdf.SetFont(p.font, "", 8)
	lh := lineHeight(8)
	p.pdf.SetXY(p.left, lineY+0.04)
	p.pdf.CellFormat(blockW, lh, "Chop or signature.", "", 0, "L", false, 0, "")
	p.pdf.SetXY(rightX, lineY+0.04)
	p.pdf.CellFormat(blockW, lh, p.tr("Chop & Authorized Signature"), "", 0, "C", false, 0, "")
	p.pdf.SetFont(p.font, "", basePt)
	p.pdf.SetXY(p.left, lineY+0.04+lh+0.15)
	return nil
}

func (p *pdfWriter) legal(profile Profile) {
	lh := lineHeight(legalPt)
	y := p.pdf.GetY()
	p.pdf.Line(p.left, y, p.left+p.width, y)
	p.pdf.SetY(y + 0.08)

	p.pdf.SetFont(p.font, "", legalPt)
	for _, para := range profile.Disclaimer {
		p.pdf.SetX(p.left)
		p.pdf.MultiCell(p.width, lh, p.tr(para), "", "J", false)
	}
	const indent = 0.15
	for i, c := range profile.Conditions {
		p.pdf.SetX(p.left + indent)
		p.pdf.MultiCell(p.width-indent, lh, p.tr(fmt.Sprintf("%d. %s", i+1, c)), "", "L", false)
	}
	if profile.GoverningLaw != "" {
		p.pdf.SetX(p.left)
		p.pdf.MultiCell(p.width, lh, p.tr(profile.GoverningLaw), "", "L", false)
	}
	p.pdf.SetFont(p.font, "", basePt)
}

func (p *pdfWriter) thanks(text string) {
	if text == "" {
		return
	}
	p.pdf.Ln(0.15)
	p.pdf.SetFont(p.font, "B", 10)
	p.pdf.SetX(p.left)
	p.pdf.CellFormat(p.width, lineHeight(10), p.tr(text), "", 1, "C", false, 0, "")
}

var now = time.Now
