package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/adapters/cache"
	"github.com/zatekoja/matchsafe/internal/adapters/database"
	"github.com/zatekoja/matchsafe/internal/adapters/events"
	"github.com/zatekoja/matchsafe/internal/adapters/search"
	"github.com/zatekoja/matchsafe/internal/api/handlers"
	"github.com/zatekoja/matchsafe/internal/api/routes"
	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/providers"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/redis"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
	"github.com/zatekoja/matchsafe/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("ENVIRONMENT"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The service works without caching, so a
	// failure here only degrades read performance.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, falling back to store-backed retrieval")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time match updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		log.Info().Msg("event bus disabled (Redis not available)")
	}

	// Initialize adapters

	baseProfileAdapter := database.NewProfileAdapter(pgClient)

	// Wrap with caching if Redis is available
	var profileAdapter repositories.ProfileRepository
	if cacheProvider != nil {
		profileAdapter = database.NewCachedProfileAdapter(baseProfileAdapter, cacheProvider, metrics)
		log.Info().Msg("profile adapter wrapped with caching layer")
	} else {
		profileAdapter = baseProfileAdapter
	}

	feedbackAdapter := database.NewFeedbackAdapter(pgClient)
	matchEventAdapter := database.NewMatchEventAdapter(pgClient)

	var candidateSource repositories.CandidateSource
	var indexer handlers.ProfileIndexer
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient, profileAdapter)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		candidateSource = adapter
		indexer = adapter
	} else {
		candidateSource = database.NewCandidateSourceAdapter(profileAdapter)
	}

	// Initialize services

	safeguardService := services.NewSafeguardService(
		services.DefaultRiskRules(cfg.Matching.MinFlagSeverity),
	)
	diversityService := services.NewDiversityService()
	analyticsService := services.NewMatchAnalyticsService(matchEventAdapter)
	if eventBus != nil {
		analyticsService.SetEventBus(eventBus)
		log.Info().Msg("event bus configured for match analytics")
	}
	featureFlags := services.NewFeatureFlags()

	matchService := services.NewMatchService(
		profileAdapter,
		candidateSource,
		safeguardService,
		diversityService,
		analyticsService,
		featureFlags,
		cfg.Matching.MaxRecommendations,
		cfg.Matching.CandidatePoolSize,
	)
	matchService.SetMetrics(metrics)

	feedbackService := services.NewFeedbackService(feedbackAdapter)

	// Initialize handlers

	matchHandler := handlers.NewMatchHandler(matchService)
	profileHandler := handlers.NewProfileHandler(profileAdapter, indexer)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cacheProvider)
	analyticsHandler := handlers.NewAnalyticsHandler(matchEventAdapter)

	// Set up router

	router := routes.NewRouter(
		matchHandler,
		profileHandler,
		feedbackHandler,
		analyticsHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
