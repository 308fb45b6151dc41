// pkg/render/render.go

package render

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/aqua-invoicing/pkg/logger"
)

//go:embed templates/invoice.gohtml
var templateFS embed.FS

// Options configures a Renderer.
type Options struct {
	Profile   Profile
	MinRows   int
	LogoPath  string
	StampPath string
	PDF       PDFOptions
}

// PageOptions controls the interactive parts of the HTML page. An empty ExportURL
// renders a bare document without the print/download bar.
type PageOptions struct {
	ExportURL string
	LogoutURL string
}

// Renderer turns invoices into the on-screen HTML document and the PDF export.
type Renderer struct {
	profile Profile
	assets  Assets
	minRows int
	pdf     PDFOptions
	fonts   fonts
	page    *template.Template
	logger  *logger.Logger
}

// New parses the page template and loads the logo and stamp images once.
func New(opts Options, log *logger.Logger) (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/invoice.gohtml")
	if err != nil {
		return nil, ierr.WithError(err).WithHint("invoice template is broken").Mark(ierr.ErrSystem)
	}
	logo, err := LoadImage("logo", opts.LogoPath)
	if err != nil {
		return nil, err
	}
	stamp, err := LoadImage("stamp", opts.StampPath)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	pdf := opts.PDF
	if pdf.PageSize == "" {
		pdf = DefaultPDFOptions()
		pdf.FontPath, pdf.BoldFontPath = opts.PDF.FontPath, opts.PDF.BoldFontPath
	}
	fonts, err := loadFonts(pdf)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		profile: opts.Profile,
		assets:  Assets{Logo: logo, Stamp: stamp},
		minRows: max(0, opts.MinRows),
		pdf:     pdf,
		fonts:   fonts,
		page:    page,
		logger:  log.Named("render"),
	}, nil
}

// Document lays out inv with the configured minimum row count.
func (r *Renderer) Document(inv invoice.Invoice) Document {
	return NewDocument(inv, r.minRows)
}

type pageData struct {
	Doc          Document
	Profile      Profile
	HasLogo      bool
	Logo         template.URL
	HasStamp     bool
	Stamp        template.URL
	InvoiceJSON  template.JS
	Options      PageOptions
	MarginInches float64
}

// HTML writes the printable invoice page.
func (r *Renderer) HTML(w io.Writer, inv invoice.Invoice, opts PageOptions) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	data := pageData{
		Doc:          r.Document(inv),
		Profile:      r.profile,
		InvoiceJSON:  template.JS(payload),
		Options:      opts,
		MarginInches: r.pdf.MarginInches,
	}
	if r.assets.Logo != nil {
		data.HasLogo = true
		data.Logo = r.assets.Logo.DataURI()
	}
	if r.assets.Stamp != nil {
		data.HasStamp = true
		data.Stamp = r.assets.Stamp.DataURI()
	}
	if err := r.page.Execute(w, data); err != nil {
		return ierr.WithError(err).
			WithHintf("failed to render invoice %s", inv.InvoiceNo).
			Mark(ierr.ErrSystem)
	}
	return nil
}
