package server

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/invoice"
	"github.com/aqua-invoicing/pkg/render"
	"github.com/aqua-invoicing/pkg/session"
)

const (
	exportURL = "/invoices/pdf"
	logoutURL = "/logout"
	// blank item rows on the entry form
	formRows = 6
)

type loginView struct {
	ID    string
	Error string
}

type indexView struct {
	Today string
	Rows  []int
	Error string
}

func (s *Server) page(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Errorw("page render failed", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// @Summary Health check
// @Tags system
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).LoggedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.page(w, http.StatusOK, "login.gohtml", loginView{})
}

// @Summary Log in
// @Description Compares id and pass with the configured admin pair and sets the session flag.
// @Tags session
// @Accept x-www-form-urlencoded
// @Param id formData string true "Admin id"
// @Param pass formData string true "Password"
// @Success 303 "Redirect to the invoice screen"
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.page(w, http.StatusBadRequest, "login.gohtml", loginView{Error: "invalid form"})
		return
	}
	id := r.PostForm.Get("id")
	pass := r.PostForm.Get("pass")

	_, err := s.sessions.Login(r.Context(), sessionID(r.Context()), id, pass)
	if err != nil {
		if ierr.IsInvalidCredentials(err) {
			s.page(w, http.StatusUnauthorized, "login.gohtml", loginView{ID: id, Error: session.InvalidCredentialsMessage})
			return
		}
		s.logger.Errorw("login failed", "error", err)
		s.page(w, ierr.HTTPStatus(err), "login.gohtml", loginView{ID: id, Error: ierr.Hint(err, "login failed")})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// @Summary Log out
// @Tags session
// @Success 303 "Redirect to the login form"
// @Router /logout [post]
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.Logout(r.Context(), sessionID(r.Context())); err != nil {
		s.logger.Errorw("logout failed", "error", err)
		http.Error(w, ierr.Hint(err, "logout failed"), ierr.HTTPStatus(err))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusOK, "index.gohtml", newIndexView(""))
}

func newIndexView(errMsg string) indexView {
	rows := make([]int, formRows)
	for i := range rows {
		rows[i] = i + 1
	}
	return indexView{
		Today: time.Now().Format(invoice.ISOLayout),
		Rows:  rows,
		Error: errMsg,
	}
}

// @Summary Preview an invoice
// @Description Renders the printable invoice page from the entry form or a JSON invoice.
// @Tags invoices
// @Accept x-www-form-urlencoded,json
// @Produce html
// @Param invoice body invoice.Invoice false "Invoice (JSON requests)"
// @Success 200 {string} string "HTML document"
// @Failure 400 {string} string "Validation error"
// @Router /invoices/preview [post]
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	inv, err := decodeInvoice(w, r)
	if err != nil {
		s.logger.Infow("preview rejected", "error", err)
		s.page(w, ierr.HTTPStatus(err), "index.gohtml", newIndexView(ierr.Hint(err, "invalid invoice")))
		return
	}
	if diff, ok := inv.Reconcile(); !ok {
		s.logger.Warnw("invoice total does not match its lines", "invoice", inv.InvoiceNo, "diff", diff.String())
	}

	var buf bytes.Buffer
	if err := s.renderer.HTML(&buf, inv, render.PageOptions{ExportURL: exportURL, LogoutURL: logoutURL}); err != nil {
		s.logger.Errorw("preview render failed", "invoice", inv.InvoiceNo, "error", err)
		http.Error(w, ierr.Hint(err, "failed to render invoice"), ierr.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// @Summary Download an invoice PDF
// @Description Builds an A4 PDF named Invoice-<invoiceNo>.pdf.
// @Tags invoices
// @Accept json,x-www-form-urlencoded
// @Produce application/pdf
// @Param invoice body invoice.Invoice true "Invoice"
// @Success 200 {file} file "PDF document"
// @Failure 400 {string} string "Validation error"
// @Failure 500 {string} string "Failed to generate PDF. Please try again."
// @Router /invoices/pdf [post]
func (s *Server) pdfHandler(w http.ResponseWriter, r *http.Request) {
	inv, err := decodeInvoice(w, r)
	if err != nil {
		s.logger.Infow("export rejected", "error", err)
		http.Error(w, ierr.Hint(err, "invalid invoice"), ierr.HTTPStatus(err))
		return
	}

	// Generate the PDF into a buffer so a failure never sends a partial file
	var pdfBuffer bytes.Buffer
	if err := s.renderer.PDF(r.Context(), &pdfBuffer, inv); err != nil {
		s.logger.Errorw("Error generating PDF", "invoice", inv.InvoiceNo, "error", err)
		http.Error(w, ierr.Hint(err, "Failed to generate PDF. Please try again."), ierr.HTTPStatus(err))
		return
	}
	fileName := render.FileName(inv.InvoiceNo)

	if s.archiver != nil {
		location, err := s.archiver.Archive(r.Context(), fileName, pdfBuffer.Bytes())
		if err != nil {
			s.logger.Warnw("invoice archive failed", "invoice", inv.InvoiceNo, "error", err)
		} else {
			s.logger.Infow("invoice archived", "invoice", inv.InvoiceNo, "location", location)
		}
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	w.Write(pdfBuffer.Bytes())
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusNotFound, "notfound.gohtml", r.URL.Path)
}
