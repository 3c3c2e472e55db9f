package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/splitpot/splitpot/internal/adapter/http/handler"
	"github.com/splitpot/splitpot/internal/adapter/http/middleware"
	"github.com/splitpot/splitpot/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GroupHandler      *handler.GroupHandler
	ExpenseHandler    *handler.ExpenseHandler
	SettlementHandler *handler.SettlementHandler
	BalanceHandler    *handler.BalanceHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Groups and their ledgers
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.Create)
			r.Get("/", cfg.GroupHandler.List)
			r.Get("/{id}", cfg.GroupHandler.Get)
			r.Post("/{id}/members", cfg.GroupHandler.AddMembers)

			r.Post("/{id}/expenses", cfg.ExpenseHandler.Record)
			r.Get("/{id}/expenses", cfg.ExpenseHandler.ListByGroup)
			r.Post("/{id}/settlements", cfg.SettlementHandler.Record)
			r.Get("/{id}/settlements", cfg.SettlementHandler.ListByGroup)

			r.Get("/{id}/balances", cfg.BalanceHandler.GetBalances)
			r.Get("/{id}/settle-plan", cfg.BalanceHandler.SuggestSettlements)
			r.Get("/{id}/verify", cfg.BalanceHandler.Verify)
		})

		// Single records
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		r.Get("/settlements/{id}", cfg.SettlementHandler.Get)
	})

	return r
}
