// Package api provides the HTTP API for SellWaste.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/api/handler"
	"github.com/sellwaste/sellwaste/internal/api/middleware"
	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/internal/featureflags"
	"github.com/sellwaste/sellwaste/internal/pickup"
	"github.com/sellwaste/sellwaste/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	PickupService      *pickup.Service
	DatasetService     *dataset.Service
	FeatureFlagService *featureflags.Service
	Registry           *resilience.Registry
	CORSAllowedOrigin  string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "sellwaste-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))          // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))        // Panic recovery
	r.Use(chimiddleware.RealIP)                   // Real IP extraction
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin)) // Cross-origin policy
	r.Use(middleware.SecurityHeaders)             // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)                  // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)             // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DatasetService, cfg.FeatureFlagService, cfg.Registry)
	pickupHandler := handler.NewPickupHandler(cfg.PickupService, cfg.Logger)
	insightsHandler := handler.NewInsightsHandler(cfg.DatasetService, cfg.Logger)
	metadataHandler := handler.NewMetadataHandler()
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Pickup pipeline - expensive compute, strict rate limiting
		r.Route("/pickup", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Post("/sell-waste-today", pickupHandler.SellWasteToday)
		})

		// Insights endpoints (public) - standard rate limiting
		r.Route("/insights", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/metrics", insightsHandler.GetMetrics)
			r.Get("/companies", insightsHandler.GetCompanies)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Admin endpoints - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFlags)
				r.Put("/", featureFlagsHandler.UpdateFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
