package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luckylabs-yuno/yuno/internal/middleware"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// Routes bundles the handlers and limits the router is built from.
type Routes struct {
	Health *HealthHandler
	Leads  *LeadHandler
	Ask    *AskHandler
	Embed  *EmbedHandler
	Admin  *AdminHandler

	JWTSecret     string
	AskLimit      int
	LeadLimit     int
	LimitWindow   time.Duration
	Logger        *logger.Logger
	ExposeMetrics bool
}

// NewRouter builds the HTTP router.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", rt.Health.Health)
	r.Get("/ready", rt.Health.Ready)

	if rt.ExposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.With(middleware.SiteRateLimit(rt.AskLimit, rt.LimitWindow)).Post("/ask", rt.Ask.Ask)

	// Embed surface
	r.Get("/embed", rt.Embed.Embed)
	r.Get("/snippet", rt.Embed.Snippet)
	r.Get("/presets", rt.Embed.Presets)
	r.Post("/inject", rt.Embed.Inject)

	// Lead forms answer every method themselves so a wrong one gets the
	// JSON 405 body.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.LeadLimit, rt.LimitWindow))
		r.HandleFunc("/api/contact", rt.Leads.Contact)
		r.HandleFunc("/api/pilot-leads", rt.Leads.Pilot)
	})

	// Admin routes with authentication
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(rt.JWTSecret))

		r.With(middleware.RequireScope(middleware.ScopeLeadsRead)).Get("/leads", rt.Admin.Leads)
		r.With(middleware.RequireScope(middleware.ScopeLeadsRead)).Get("/enquiries", rt.Admin.Enquiries)
		r.With(middleware.RequireScope(middleware.ScopeTranscriptsRead)).
			Get("/transcripts/{siteID}/{sessionID}", rt.Admin.Transcript)
	})

	return r
}
