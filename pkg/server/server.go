// pkg/server/server.go

package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	_ "github.com/aqua-invoicing/docs" // registers the swagger spec
	"github.com/aqua-invoicing/pkg/archive"
	"github.com/aqua-invoicing/pkg/logger"
	"github.com/aqua-invoicing/pkg/render"
	"github.com/aqua-invoicing/pkg/session"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed templates/*.gohtml
var pagesFS embed.FS

// SessionCookie carries the browser session id the login flag is keyed by.
const SessionCookie = "aqua_session"

// Options holds the optional collaborators of a Server.
type Options struct {
	Archiver     archive.Archiver
	SecureCookie bool
	SessionTTL   time.Duration
}

// Server wires the login gate and the invoice screens to HTTP routes.
type Server struct {
	sessions *session.Controller
	renderer *render.Renderer
	archiver archive.Archiver
	pages    *template.Template
	logger   *logger.Logger
	opts     Options
}

func New(sessions *session.Controller, renderer *render.Renderer, log *logger.Logger, opts Options) (*Server, error) {
	pages, err := template.ParseFS(pagesFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		sessions: sessions,
		renderer: renderer,
		archiver: opts.Archiver,
		pages:    pages,
		logger:   log.Named("http"),
		opts:     opts,
	}, nil
}

// Handler returns the router.
//
//	GET  /login              login form
//	POST /login              check credentials
//	POST /logout             clear the session flag
//	GET  /                   invoice entry form
//	POST /invoices/preview   printable invoice page
//	POST /invoices/pdf       PDF download
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.withSession)

	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	r.HandleFunc("/login", s.loginPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)

	private := r.NewRoute().Subrouter()
	private.Use(s.requireLogin)
	private.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	private.HandleFunc("/invoices/preview", s.previewHandler).Methods(http.MethodPost)
	private.HandleFunc("/invoices/pdf", s.pdfHandler).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(s.notFoundHandler)
	return r
}

type ctxKey int

const sessionIDKey ctxKey = iota

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// withSession makes sure the browser has a session id and loads its state.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := ulid.ParseStrict(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = ulid.Make().String()
			http.SetCookie(w, s.sessionCookie(id))
		}

		state, err := s.sessions.Load(r.Context(), id)
		if err != nil {
			s.logger.Errorw("session load failed", "session", id, "error", err)
			state = session.State{}
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		ctx = session.WithState(ctx, state)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.SessionTTL > 0 {
		c.MaxAge = int(s.opts.SessionTTL.Seconds())
	}
	return c
}

// requireLogin sends page requests to the login form and rejects other requests.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).LoggedIn {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodGet {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "login required", http.StatusUnauthorized)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
