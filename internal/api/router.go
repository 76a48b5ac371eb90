package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/lifecycle"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/middleware"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/services"
)

type Sessions interface {
	Login(ctx context.Context, area models.Role, creds models.Credentials) (*services.LoginResult, error)
	Logout(ctx context.Context) ([]*http.Cookie, error)
	Signup(ctx context.Context, area models.Role, creds models.Credentials) error
	Resolve(ctx context.Context, id string) (models.Session, bool)
	TTL() time.Duration
}

type Forms interface {
	Validate(def form.Definition) (form.Definition, error)
	Create(ctx context.Context, def form.Definition) (form.Definition, error)
	List(ctx context.Context) ([]form.Definition, error)
	Get(ctx context.Context, id string) (form.Definition, error)
	Describe(ctx context.Context, id string) ([]form.Descriptor, error)
}

type Feedback interface {
	Employees(ctx context.Context) ([]models.Employee, error)
	Received(ctx context.Context, status lifecycle.Status) ([]lifecycle.View, error)
	Sent(ctx context.Context) ([]lifecycle.View, error)
	Counts(ctx context.Context) (map[lifecycle.Status]int, error)
	Request(ctx context.Context, in services.RequestInput) (lifecycle.View, error)
	Respond(ctx context.Context, in services.RespondInput) (*services.RespondResult, error)
	Reject(ctx context.Context, id string) (lifecycle.View, error)
	Detail(ctx context.Context, id string) (services.DetailView, error)
	Messages(ctx context.Context) ([]services.FeedbackView, error)
}

type Reviews interface {
	Review(ctx context.Context) (*services.Review, error)
}

type Audits interface {
	Recent(ctx context.Context, limit int) ([]db.AuditEntry, error)
}

// Options carries the HTTP level settings of the router.
type Options struct {
	SessionCookie string
	SecureCookies bool
	CORSOrigin    string
	// Frontend serves every non-API path once the page guard allowed it.
	Frontend http.Handler
	Version  string
	Commit   string
}

type Router struct {
	cfg      Options
	logger   *logging.Logger
	verifier *middleware.TokenVerifier
	sessions Sessions
	forms    Forms
	feedback Feedback
	reviews  Reviews
	audits   Audits
}

func NewRouter(cfg Options, logger *logging.Logger, verifier *middleware.TokenVerifier,
	sessions Sessions, forms Forms, feedback Feedback, reviews Reviews, audits Audits) *Router {
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "candor_session"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if verifier == nil {
		verifier = middleware.NewTokenVerifier("", "")
	}
	return &Router{
		cfg:      cfg,
		logger:   logger,
		verifier: verifier,
		sessions: sessions,
		forms:    forms,
		feedback: feedback,
		reviews:  reviews,
		audits:   audits,
	}
}

// Handler wires the middleware chain, the JSON API and the guarded pages.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(rt.logger))
	r.Use(middleware.SecureHeaders)

	r.Get("/health", rt.handleHealth)
	r.Get("/version", rt.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.CORS(rt.cfg.CORSOrigin))
		r.Use(rt.withSession)

		r.Post("/{area}/login", rt.handleLogin)
		r.Post("/{area}/logout", rt.handleLogout)
		r.Post("/{area}/signup", rt.handleSignup)

		r.Get("/session", rt.handleSession)

		r.Post("/forms/validate", rt.handleValidateForm)
		r.Get("/forms", rt.handleListForms)
		r.Get("/forms/{id}", rt.handleGetForm)
		r.Get("/forms/{id}/descriptor", rt.handleDescribeForm)
		r.Post("/admin/forms", rt.handleCreateForm)
		r.Get("/admin/audit", rt.handleAudit)

		r.Get("/employees", rt.handleEmployees)

		r.Post("/requests", rt.handleSendRequest)
		r.Get("/requests/sent", rt.handleSent)
		r.Get("/requests/received", rt.handleReceived)
		r.Get("/requests/counts", rt.handleCounts)
		r.Get("/requests/{id}", rt.handleDetail)
		r.Post("/requests/{id}/respond", rt.handleRespond)
		r.Patch("/requests/{id}/reject", rt.handleReject)

		r.Get("/feedback/messages", rt.handleMessages)
		r.Get("/manager/review", rt.handleReview)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeErrorJSON(w, r, http.StatusNotFound, "not found")
		})
	})

	frontend := rt.cfg.Frontend
	if frontend == nil {
		frontend = http.NotFoundHandler()
	}
	r.With(rt.verifier.WithAuth, middleware.Guard(rt.verifier)).Handle("/*", frontend)
	return r
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, http.StatusOK, map[string]string{"version": rt.cfg.Version, "commit": rt.cfg.Commit})
}
