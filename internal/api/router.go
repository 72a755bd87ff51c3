// Package api wires the HTTP routes, middleware and handlers together.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/api/handler"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
)

// RouterConfig holds the settings NewRouter needs besides the handler.
type RouterConfig struct {
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics

	// Gatherer backs /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer

	Timeout    time.Duration
	CORSOrigin string
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h *handler.Handler, cfg RouterConfig) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = handler.DefaultTimeout
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTManager))

			r.Get("/dashboard", h.Dashboard)
			r.Get("/groups", h.ListGroups)
			r.Post("/create-group", h.CreateGroup)
			r.Post("/join-group", h.JoinGroup)
			r.Post("/expenses", h.CreateExpense)

			r.Route("/groups/{id}", func(r chi.Router) {
				r.Get("/", h.GetGroup)
				r.Get("/simplify", h.Simplify)
				r.Get("/balances", h.Balances)
				r.Post("/settle", h.Settle)
				r.Get("/activity", h.Activity)
				r.Get("/expenses", h.ListExpenses)
				r.Get("/websockets", h.ChatHistory)
				r.Post("/messages", h.PostMessage)
			})
		})
	})

	return r
}
