package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/veloretail/backoffice/internal/cache"
	"github.com/veloretail/backoffice/internal/config"
	"github.com/veloretail/backoffice/internal/inventory"
	"github.com/veloretail/backoffice/internal/payment"
	"github.com/veloretail/backoffice/internal/staff"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/internal/store/gormstore"
	"github.com/veloretail/backoffice/kafka"
	"github.com/veloretail/backoffice/pkg/database"
	"github.com/veloretail/backoffice/pkg/logger"
	"github.com/veloretail/backoffice/pkg/tracing"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting backoffice service")

	// Tracing
	tp, err := tracing.InitTracer(cfg.ServiceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled, failed to initialize tracer")
	} else {
		defer tracing.Shutdown(context.Background(), tp)
	}

	// Database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	// Separate plain connection for health probes, kept off the ORM pool
	sqlDB, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer sqlDB.Close()

	logger.Logger.Info().Msg("Database initialized successfully")

	st := gormstore.New(db)
	writer := store.NewAdaptiveWriter(st)

	// Cache is optional, a missing Redis degrades to direct reads
	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, caching disabled")
		} else {
			c = redisCache
			logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")
		}
	}

	// Kafka is optional, events are skipped when no brokers are configured
	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("Kafka unavailable, event publishing disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Handlers
	middleware, err := staff.InitializeAuthMiddleware(cfg, st, writer, c)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize auth middleware")
	}
	staffHandler, err := staff.InitializeHTTPHandler(cfg, st, writer, c)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize staff handler")
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(st, writer, middleware, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	paymentHandler, err := payment.InitializeHTTPHandler(st, writer, middleware, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize payment handler")
	}

	// Router
	router := mux.NewRouter()
	staffHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
