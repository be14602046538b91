// Package main provides the entrypoint for the SellWaste API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/api"
	"github.com/sellwaste/sellwaste/internal/api/middleware"
	"github.com/sellwaste/sellwaste/internal/database"
	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/internal/featureflags"
	"github.com/sellwaste/sellwaste/internal/pickup"
	"github.com/sellwaste/sellwaste/internal/provider/resilience"
	"github.com/sellwaste/sellwaste/internal/telemetry"
	"github.com/sellwaste/sellwaste/internal/textgen"
	"github.com/sellwaste/sellwaste/internal/textgen/gemini"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sellwaste-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SellWaste API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Select the dataset and feature flag backends. The postgres backend
	// also serves feature flags; the file backend pairs with in-memory
	// flags so the server runs without any infrastructure.
	datasetSource := os.Getenv("DATASET_SOURCE")
	if datasetSource == "" {
		datasetSource = "file"
	}

	var datasetRepo dataset.Repository
	var flagRepo featureflags.Repository

	if datasetSource == "postgres" {
		dbConfig := database.ConfigFromEnv()
		pool, connErr := database.Connect(ctx, dbConfig)
		if connErr != nil {
			log.Fatal().Err(connErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		datasetRepo = dataset.NewPostgresRepository(pool)
		flagRepo = featureflags.NewPostgresRepository(pool)
	} else {
		datasetPath := os.Getenv("DATASET_PATH")
		if datasetPath == "" {
			datasetPath = "data/waste_companies.json"
		}
		datasetRepo = dataset.NewFileRepository(datasetPath)
		flagRepo = featureflags.NewInMemoryRepository()
		log.Info().Str("path", datasetPath).Msg("using file dataset")
	}

	datasetService := dataset.NewService(dataset.ServiceConfig{
		Repository: datasetRepo,
		Logger:     log,
	})

	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: flagRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize the text-generation provider (may be nil if not
	// configured; every advisory stage then uses its fallback text).
	registry := resilience.NewRegistry()

	var textGen textgen.Provider
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		textGen = gemini.NewClient(gemini.ClientConfig{
			APIKey:   apiKey,
			Model:    os.Getenv("GEMINI_MODEL"),
			Registry: registry,
			Logger:   log,
		})
		log.Info().Msg("text generation provider initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - advisory stages will use fallback text")
	}

	pickupService := pickup.NewService(pickup.ServiceConfig{
		Dataset: datasetService,
		TextGen: textGen,
		Flags:   ffService,
		Logger:  log,
	})
	log.Info().Msg("pickup service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		PickupService:      pickupService,
		DatasetService:     datasetService,
		FeatureFlagService: ffService,
		Registry:           registry,
		CORSAllowedOrigin:  os.Getenv("CORS_ALLOWED_ORIGIN"),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
